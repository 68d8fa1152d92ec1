// Package main is the interactive storefront client: a shell over the
// session, cart, and catalog stores.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/api"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/cart"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/httpx"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/session"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/client/storage"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/config"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/logger"
	"github.com/thedinkardubey/sarvavihar-frontend/internal/models"
)

var (
	version   string
	buildDate string
)

// consoleNotifier prints retry progress to the terminal so the user sees
// the client is still trying.
type consoleNotifier struct{}

func (consoleNotifier) Retrying(attempt, max int) {
	fmt.Printf("Connection attempt %d of %d...\n", attempt, max)
}

func (consoleNotifier) Recovered() {
	fmt.Println("Connection restored!")
}

// shell bundles the stores the command loop drives.
type shell struct {
	session  *session.Store
	cart     *cart.Store
	products *api.ProductsAPI
	scanner  *bufio.Scanner
}

// prompt reads one trimmed line after printing a label.
func (s *shell) prompt(label string) string {
	fmt.Print(label)
	if !s.scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(s.scanner.Text())
}

func (s *shell) promptFloat(label string) float64 {
	v, _ := strconv.ParseFloat(s.prompt(label), 64)
	return v
}

func (s *shell) promptInt(label string) int {
	v, _ := strconv.Atoi(s.prompt(label))
	return v
}

func report(r api.Result, success string) {
	if r.Success {
		fmt.Println(success)
	} else {
		fmt.Println(r.Message)
	}
}

func (s *shell) login(ctx context.Context) {
	email := s.prompt("Email: ")
	password := s.prompt("Password: ")
	report(s.session.Login(ctx, email, password), "Logged in")
}

func (s *shell) register(ctx context.Context) {
	username := s.prompt("Username: ")
	email := s.prompt("Email: ")
	password := s.prompt("Password: ")
	report(s.session.Register(ctx, username, email, password), "Account created")
}

func (s *shell) whoami() {
	user := s.session.User()
	if user == nil {
		fmt.Println("Not logged in")
		return
	}
	fmt.Printf("%s <%s>", user.Username, user.Email)
	if user.IsAdmin {
		fmt.Print(" (admin)")
	}
	fmt.Println()
}

// listProducts parses optional key=value filters: category, search, sort,
// min, max, page, limit.
func (s *shell) listProducts(ctx context.Context, args []string) {
	var filter models.ProductFilter
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			fmt.Printf("Ignoring %q; filters look like category=books\n", arg)
			continue
		}
		switch key {
		case "category":
			filter.Category = value
		case "search":
			filter.Search = value
		case "sort":
			filter.Sort = value
		case "min":
			filter.MinPrice, _ = strconv.ParseFloat(value, 64)
		case "max":
			filter.MaxPrice, _ = strconv.ParseFloat(value, 64)
		case "page":
			filter.Page, _ = strconv.Atoi(value)
		case "limit":
			filter.Limit, _ = strconv.Atoi(value)
		default:
			fmt.Printf("Unknown filter %q\n", key)
		}
	}

	res := s.products.List(ctx, filter)
	if !res.Success {
		fmt.Println(res.Message)
		return
	}
	for _, p := range res.Items {
		fmt.Printf("%-36s  %-30s  %8.2f  %s\n", p.ID, p.Name, p.Price, p.Category)
	}
	fmt.Printf("Page %d of %d (%d total)\n", res.Page, res.Pages, res.Total)
}

func (s *shell) showProduct(ctx context.Context, id string) {
	res := s.products.Get(ctx, id)
	if !res.Success {
		fmt.Println(res.Message)
		return
	}
	p := res.Product
	fmt.Printf("%s\n  %s\n  Price: %.2f  Category: %s  Stock: %d\n", p.Name, p.Description, p.Price, p.Category, p.Stock)
}

func (s *shell) categories(ctx context.Context) {
	res := s.products.Categories(ctx)
	if !res.Success {
		fmt.Println(res.Message)
		return
	}
	for _, c := range res.Categories {
		fmt.Println(c)
	}
}

func (s *shell) showCart(ctx context.Context) {
	if r := s.cart.Fetch(ctx); !r.Success {
		fmt.Println(r.Message)
		return
	}
	snapshot := s.cart.Snapshot()
	if len(snapshot.Items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, line := range snapshot.Items {
		fmt.Printf("%-36s  %-30s  x%d  %8.2f\n", line.Item.ID, line.Item.Name, line.Quantity, line.Item.Price)
	}
	fmt.Printf("Items: %d  Total: %.2f\n", snapshot.TotalItems, snapshot.TotalAmount)
}

func (s *shell) promptProduct(p *models.Product) {
	if name := s.prompt(fmt.Sprintf("Name [%s]: ", p.Name)); name != "" {
		p.Name = name
	}
	if desc := s.prompt("Description: "); desc != "" {
		p.Description = desc
	}
	if price := s.promptFloat(fmt.Sprintf("Price [%.2f]: ", p.Price)); price > 0 {
		p.Price = price
	}
	if category := s.prompt(fmt.Sprintf("Category [%s]: ", p.Category)); category != "" {
		p.Category = category
	}
	if imageURL := s.prompt("Image URL: "); imageURL != "" {
		p.ImageURL = imageURL
	}
	if stock := s.promptInt(fmt.Sprintf("Stock [%d]: ", p.Stock)); stock > 0 {
		p.Stock = stock
	}
}

func (s *shell) createProduct(ctx context.Context) {
	var p models.Product
	s.promptProduct(&p)
	res := s.products.Create(ctx, p)
	if !res.Success {
		fmt.Println(res.Message)
		return
	}
	fmt.Printf("Product created: %s\n", res.Product.ID)
}

func (s *shell) editProduct(ctx context.Context, id string) {
	current := s.products.Get(ctx, id)
	if !current.Success {
		fmt.Println(current.Message)
		return
	}
	p := current.Product
	s.promptProduct(&p)
	report(s.products.Update(ctx, id, p).Result, "Product updated")
}

const helpText = `Available commands:
  login                      sign in with email and password
  register                   create an account
  logout                     sign out
  whoami                     show the current user
  products [k=v ...]         list products (category, search, sort, min, max, page, limit)
  product <id>               show one product
  categories                 list categories
  cart                       show the cart
  add <id> [qty]             add a product to the cart
  update <id> <qty>          set a cart line quantity (0 removes)
  remove <id>                remove a cart line
  clear                      empty the cart
  create-product             add a catalog item (admin)
  edit-product <id>          edit a catalog item (admin)
  delete-product <id>        delete a catalog item (admin)
  help                       show this help
  exit                       quit`

// repl runs the interactive command loop.
func (s *shell) repl(ctx context.Context) {
	for {
		fmt.Print("storefront> ")
		if !s.scanner.Scan() {
			break
		}
		args := strings.Fields(strings.TrimSpace(s.scanner.Text()))
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println(helpText)
		case "login":
			s.login(ctx)
		case "register":
			s.register(ctx)
		case "logout":
			s.session.Logout(ctx)
			fmt.Println("Logged out")
		case "whoami":
			s.whoami()
		case "products":
			s.listProducts(ctx, args[1:])
		case "product":
			if len(args) < 2 {
				fmt.Println("Usage: product <id>")
				continue
			}
			s.showProduct(ctx, args[1])
		case "categories":
			s.categories(ctx)
		case "cart":
			s.showCart(ctx)
		case "add":
			if len(args) < 2 {
				fmt.Println("Usage: add <id> [qty]")
				continue
			}
			quantity := 1
			if len(args) > 2 {
				quantity, _ = strconv.Atoi(args[2])
			}
			report(s.cart.AddItem(ctx, args[1], quantity), "Added to cart")
		case "update":
			if len(args) < 3 {
				fmt.Println("Usage: update <id> <qty>")
				continue
			}
			quantity, err := strconv.Atoi(args[2])
			if err != nil {
				fmt.Println("Quantity must be a number")
				continue
			}
			report(s.cart.UpdateItem(ctx, args[1], quantity), "Cart updated")
		case "remove":
			if len(args) < 2 {
				fmt.Println("Usage: remove <id>")
				continue
			}
			report(s.cart.RemoveItem(ctx, args[1]), "Removed from cart")
		case "clear":
			report(s.cart.Clear(ctx), "Cart cleared")
		case "create-product":
			s.createProduct(ctx)
		case "edit-product":
			if len(args) < 2 {
				fmt.Println("Usage: edit-product <id>")
				continue
			}
			s.editProduct(ctx, args[1])
		case "delete-product":
			if len(args) < 2 {
				fmt.Println("Usage: delete-product <id>")
				continue
			}
			report(s.products.Delete(ctx, args[1]), "Product deleted")
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func main() {
	options := config.Parse()

	if version != "" || buildDate != "" {
		fmt.Printf("Storefront Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Warn"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	// Durable local store and the token mirror over it.
	ls := storage.New(options.StoragePath)
	tokens := storage.NewTokenStore(ls)

	// Resilient HTTP client; retry progress goes to the terminal.
	client := httpx.New(httpx.Config{
		BaseURL:    options.APIURL,
		Tokens:     tokens,
		Timeout:    options.RequestTimeout,
		MaxRetries: options.MaxRetries,
		BaseDelay:  options.RetryBaseDelay,
		Notifier:   consoleNotifier{},
		Logger:     zapLogger,
	})

	facade := api.New(client, zapLogger)
	sess := session.New(facade.Auth, tokens, zapLogger)

	// A 401 anywhere drops the session exactly once.
	client.OnUnauthorized(sess.Invalidate)

	cartStore := cart.New(facade.Cart, sess, zapLogger)

	ctx := context.Background()
	sess.Initialize(ctx)
	if user := sess.User(); user != nil {
		fmt.Printf("Welcome back, %s\n", user.Username)
	}

	s := &shell{
		session:  sess,
		cart:     cartStore,
		products: facade.Products,
		scanner:  bufio.NewScanner(os.Stdin),
	}
	s.repl(ctx)
}
