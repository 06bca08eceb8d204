// pos is a terminal front end for the order-taking workflow. Every command
// is a plain projection of workflow or client state; the logic lives in
// internal/workflow and internal/client.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"restaurant-pos/internal/client"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/session"
	"restaurant-pos/internal/transport"
	"restaurant-pos/internal/workflow"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	sess, err := session.NewFileStore(cfg.StateFile)
	if err != nil {
		fatal(err)
	}

	api := client.New(cfg.APIURL, cfg.RequestTimeout, sess)
	api.OnUnauthorized = func() {
		fmt.Fprintln(os.Stderr, "session expired, please run: pos login")
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "login":
		err = login(ctx, api, os.Args[2:])
	case "logout":
		err = api.Logout(ctx)
	case "whoami":
		err = whoami(sess)
	case "tables":
		err = tables(ctx, api)
	case "menu":
		err = menu(ctx, api, os.Args[2:])
	case "order":
		err = order(ctx, api, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pos <command>

commands:
  login   -u <username> -p <password>
  logout
  whoami
  tables
  menu    [-search <term>]
  order   -table <number> [-guest <name>] [-notes <text>] -item <name>[x<qty>] ...`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "pos:", err)
	os.Exit(1)
}

func login(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	user := fs.String("u", "", "username")
	pass := fs.String("p", "", "password")
	fs.Parse(args)

	if *user == "" || *pass == "" {
		return errors.New("login needs -u and -p")
	}
	res, err := api.Login(ctx, transport.LoginRequest{Username: *user, Password: *pass})
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", res.User.Username, res.User.Role)
	return nil
}

func whoami(sess session.Store) error {
	if !session.IsAuthenticated(sess) {
		return errors.New("not logged in")
	}
	user, found := sess.User()
	if !found {
		return errors.New("no cached user, log in again")
	}
	fmt.Printf("%s (%s)\n", user.Username, user.Role)
	return nil
}

func tables(ctx context.Context, api *client.Client) error {
	pad := workflow.New(api)
	if err := pad.Load(ctx); err != nil {
		return err
	}
	for _, v := range pad.TableViews() {
		line := fmt.Sprintf("T%-4s %d seats  %-10s %s",
			v.Table.TableNumber, v.Table.SeatingCapacity, v.Table.Location, v.Status)
		if v.ActiveOrder != nil {
			line += "  " + v.ActiveOrder.OrderNumber
		}
		fmt.Println(line)
	}
	return nil
}

func menu(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("menu", flag.ExitOnError)
	search := fs.String("search", "", "substring filter on name or description")
	fs.Parse(args)

	pad := workflow.New(api)
	if err := pad.Load(ctx); err != nil {
		return err
	}
	for _, p := range pad.FilterProducts(*search) {
		note := ""
		if !p.IsAvailable {
			note = "  (unavailable)"
		}
		fmt.Printf("%-20s %8s  %dmin%s\n", p.Name, "$"+p.Price.String(), p.PreparationTime, note)
	}
	return nil
}

func order(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	tableNum := fs.String("table", "", "table number")
	guest := fs.String("guest", "", "guest name")
	notes := fs.String("notes", "", "order notes")
	var items itemList
	fs.Var(&items, "item", "product name, optionally with x<qty>")
	fs.Parse(args)

	if *tableNum == "" {
		return errors.New("order needs -table")
	}
	if len(items) == 0 {
		return errors.New("order needs at least one -item")
	}

	pad := workflow.New(api)
	if err := pad.Load(ctx); err != nil {
		return err
	}

	var table *models.DiningTable
	for i := range pad.Tables {
		if pad.Tables[i].TableNumber == *tableNum {
			table = &pad.Tables[i]
			break
		}
	}
	if table == nil {
		return fmt.Errorf("no table %q", *tableNum)
	}
	if !pad.SelectTable(*table) {
		return fmt.Errorf("table %s is %s and cannot take a new order", table.TableNumber, pad.StatusOf(*table))
	}

	for _, it := range items {
		product, found := findProduct(pad.Products, it.name)
		if !found {
			return fmt.Errorf("no product %q on the menu", it.name)
		}
		if !product.IsAvailable {
			return fmt.Errorf("%s is currently unavailable", product.Name)
		}
		for i := 0; i < it.qty; i++ {
			pad.AddToCart(product)
		}
	}

	pad.GuestName = *guest
	pad.Notes = *notes

	fmt.Printf("table %s, %d lines, total $%s\n", table.TableNumber, pad.ItemCount(), pad.Total())
	created, err := pad.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("order %s sent to kitchen\n", created.OrderNumber)
	return nil
}

func findProduct(products []models.Product, name string) (models.Product, bool) {
	for _, p := range products {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return models.Product{}, false
}

// itemList parses repeated -item flags of the form "Burger" or "Burger x2".
type itemList []struct {
	name string
	qty  int
}

func (l *itemList) String() string { return fmt.Sprint(*l) }

func (l *itemList) Set(v string) error {
	name, qty := v, 1
	if i := strings.LastIndex(v, " x"); i > 0 {
		n, err := strconv.Atoi(strings.TrimSpace(v[i+2:]))
		if err != nil || n < 1 {
			return fmt.Errorf("bad quantity in %q", v)
		}
		name, qty = strings.TrimSpace(v[:i]), n
	}
	*l = append(*l, struct {
		name string
		qty  int
	}{name, qty})
	return nil
}
