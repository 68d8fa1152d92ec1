package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/httpx"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

// fakeCaller returns a scripted transport outcome and records the request.
type fakeCaller struct {
	res *httpx.Response
	err error

	method string
	path   string
	query  url.Values
	body   any
	calls  int
}

func (f *fakeCaller) Do(ctx context.Context, method, path string, query url.Values, body any) (*httpx.Response, error) {
	f.calls++
	f.method = method
	f.path = path
	f.query = query
	f.body = body
	return f.res, f.err
}

func jsonResponse(status int, body string) *httpx.Response {
	return &httpx.Response{StatusCode: status, Body: []byte(body)}
}

func TestResolve_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		res      *httpx.Response
		err      error
		expected string
	}{
		{
			name:     "network failure",
			err:      errors.New("connection refused"),
			expected: MsgNetworkError,
		},
		{
			name:     "401 without message",
			res:      jsonResponse(http.StatusUnauthorized, `{}`),
			expected: MsgUnauthorized,
		},
		{
			name:     "401 with server message",
			res:      jsonResponse(http.StatusUnauthorized, `{"message":"Session expired"}`),
			expected: "Session expired",
		},
		{
			name:     "400 with server message",
			res:      jsonResponse(http.StatusBadRequest, `{"message":"password must be at least 6 characters"}`),
			expected: "password must be at least 6 characters",
		},
		{
			name:     "400 without message falls back",
			res:      jsonResponse(http.StatusBadRequest, `{}`),
			expected: "fallback",
		},
		{
			name:     "404",
			res:      jsonResponse(http.StatusNotFound, `{}`),
			expected: MsgNotFound,
		},
		{
			name:     "500 ignores server message",
			res:      jsonResponse(http.StatusInternalServerError, `{"message":"stack trace"}`),
			expected: MsgServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := resolve(tt.res, tt.err, "fallback")
			if r.Success {
				t.Fatal("expected failure result")
			}
			if r.Message != tt.expected {
				t.Errorf("expected message %q, got %q", tt.expected, r.Message)
			}
		})
	}
}

func TestResolve_Success(t *testing.T) {
	r := resolve(jsonResponse(http.StatusOK, `{}`), nil, "fallback")
	if !r.Success {
		t.Fatalf("expected success, got %q", r.Message)
	}
	if r.Message != "" {
		t.Errorf("expected empty message, got %q", r.Message)
	}
}

func TestAuthAPI_LoginSuccess(t *testing.T) {
	caller := &fakeCaller{res: jsonResponse(http.StatusOK, `{"token":"tok-1","user":{"id":"u1","username":"ana","email":"ana@example.com"}}`)}
	a := New(caller, nil)

	res := a.Auth.Login(context.Background(), "ana@example.com", "secret")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Token != "tok-1" {
		t.Errorf("expected token tok-1, got %q", res.Token)
	}
	if res.User == nil || res.User.Username != "ana" {
		t.Errorf("unexpected user %+v", res.User)
	}
	if caller.method != http.MethodPost || caller.path != PathLogin {
		t.Errorf("unexpected request %s %s", caller.method, caller.path)
	}
}

func TestAuthAPI_LoginBadCredentials(t *testing.T) {
	caller := &fakeCaller{res: jsonResponse(http.StatusBadRequest, `{"message":"Invalid email or password"}`)}
	a := New(caller, nil)

	res := a.Auth.Login(context.Background(), "ana@example.com", "wrong")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Message != "Invalid email or password" {
		t.Errorf("unexpected message %q", res.Message)
	}
	if res.Token != "" || res.User != nil {
		t.Errorf("expected empty auth payload, got %+v", res)
	}
}

func TestAuthAPI_MalformedPayloadIsPlainFailure(t *testing.T) {
	caller := &fakeCaller{res: jsonResponse(http.StatusOK, `not json at all`)}
	a := New(caller, nil)

	res := a.Auth.CurrentUser(context.Background())
	if res.Success {
		t.Fatal("expected failure on undecodable payload")
	}
	if res.Message != "Failed to get user data" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestCartAPI_MutationsCarrySnapshot(t *testing.T) {
	body := `{"cart":{"items":[{"item":{"id":"p1","name":"Mug","price":9.5},"quantity":2}],"totalAmount":19,"totalItems":2}}`
	caller := &fakeCaller{res: jsonResponse(http.StatusOK, body)}
	a := New(caller, nil)

	res := a.Cart.Add(context.Background(), "p1", 2)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if len(res.Cart.Items) != 1 || res.Cart.Items[0].Quantity != 2 {
		t.Errorf("unexpected cart %+v", res.Cart)
	}
	if res.Cart.TotalItems != 2 {
		t.Errorf("expected server total 2, got %d", res.Cart.TotalItems)
	}
	if caller.path != PathCartAdd {
		t.Errorf("unexpected path %q", caller.path)
	}
}

func TestCartAPI_RemoveEscapesID(t *testing.T) {
	caller := &fakeCaller{res: jsonResponse(http.StatusOK, `{"cart":{"items":[],"totalAmount":0,"totalItems":0}}`)}
	a := New(caller, nil)

	res := a.Cart.Remove(context.Background(), "p 1")
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if caller.method != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", caller.method)
	}
	if caller.path != PathCartRemove+"p%201" {
		t.Errorf("unexpected path %q", caller.path)
	}
}

func TestProductsAPI_ListBuildsQuery(t *testing.T) {
	body := `{"items":[{"id":"p1","name":"Mug"}],"total":25,"page":2,"pages":3}`
	caller := &fakeCaller{res: jsonResponse(http.StatusOK, body)}
	a := New(caller, nil)

	res := a.Products.List(context.Background(), models.ProductFilter{
		Category: "kitchen",
		Search:   "mug",
		Sort:     models.SortPriceAsc,
		MinPrice: 5,
		MaxPrice: 20,
		Page:     2,
		Limit:    10,
	})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Total != 25 || res.Page != 2 || res.Pages != 3 {
		t.Errorf("unexpected page meta %+v", res)
	}

	q := caller.query
	expected := map[string]string{
		"category": "kitchen",
		"search":   "mug",
		"sort":     "price_asc",
		"minPrice": "5",
		"maxPrice": "20",
		"page":     "2",
		"limit":    "10",
	}
	for key, want := range expected {
		if got := q.Get(key); got != want {
			t.Errorf("query %s: expected %q, got %q", key, want, got)
		}
	}
}

func TestProductsAPI_ListOmitsZeroFilters(t *testing.T) {
	caller := &fakeCaller{res: jsonResponse(http.StatusOK, `{"items":[],"total":0,"page":1,"pages":0}`)}
	a := New(caller, nil)

	res := a.Products.List(context.Background(), models.ProductFilter{})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if len(caller.query) != 0 {
		t.Errorf("expected empty query, got %v", caller.query)
	}
}

func TestProductsAPI_GetNotFound(t *testing.T) {
	caller := &fakeCaller{res: jsonResponse(http.StatusNotFound, `{"message":"Resource not found"}`)}
	a := New(caller, nil)

	res := a.Products.Get(context.Background(), "missing")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Message != MsgNotFound {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestAuthAPI_NetworkFailure(t *testing.T) {
	caller := &fakeCaller{err: errors.New("no route to host")}
	a := New(caller, nil)

	res := a.Auth.Login(context.Background(), "ana@example.com", "secret")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Message != MsgNetworkError {
		t.Errorf("unexpected message %q", res.Message)
	}
}
