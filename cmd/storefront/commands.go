package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Skotchmaster/storefront/internal/cart"
	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storefront"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/config"
)

var (
	errUsage     = errors.New("usage")
	errAdminOnly = errors.New("admin role required")
)

type command struct {
	summary string
	auth    bool
	admin   bool
	run     func(ctx context.Context, app *storefront.App, args []string, out io.Writer) error
}

var commands = map[string]command{
	"login":     {summary: "log in: -email -password", run: cmdLogin},
	"logout":    {summary: "end the saved session", auth: true, run: cmdLogout},
	"cart":      {summary: "show the cart", auth: true, run: cmdCart},
	"add":       {summary: "add a variant: -variant -qty", auth: true, run: cmdAdd},
	"update":    {summary: "set a line quantity: -item -qty", auth: true, run: cmdUpdate},
	"remove":    {summary: "remove a line: -item", auth: true, run: cmdRemove},
	"clear":     {summary: "empty the cart", auth: true, run: cmdClear},
	"addresses": {summary: "list shipping addresses", auth: true, run: cmdAddresses},
	"checkout":  {summary: "place an order: [-address] [-coupon] [-notes]", auth: true, run: cmdCheckout},
	"orders":    {summary: "list past orders", auth: true, run: cmdOrders},
	"variant":   {summary: "show a variant: -id", run: cmdVariant},
	"stock":     {summary: "set variant stock (admin): -variant -qty [-active]", auth: true, admin: true, run: cmdStock},
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage(out)
		return errUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(out)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	app, err := storefront.New(cfg, log, storefront.Options{OrderedCartResponses: true})
	if err != nil {
		return err
	}
	app.Start(ctx)
	defer app.Close()

	if err := resume(ctx, app, cfg.TokenFile); err != nil {
		log.Debug("no_saved_session", "error", err)
	}
	if cmd.auth && !app.Session.State().Authenticated {
		return fmt.Errorf("%s: %w; run `storefront login` first", args[0], session.ErrNotAuthenticated)
	}
	if cmd.admin {
		if u := app.Session.State().User; u == nil || !u.IsAdmin() {
			return fmt.Errorf("%s: %w", args[0], errAdminOnly)
		}
	}

	runErr := cmd.run(ctx, app, args[1:], out)
	if err := persist(app, cfg.TokenFile); err != nil {
		log.Warn("save_session_failed", "file", cfg.TokenFile, "error", err)
	}
	return runErr
}

func usage(out io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "usage: storefront <command> [flags]")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, commands[name].summary)
	}
	tw.Flush()
}

func resume(ctx context.Context, app *storefront.App, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var t session.Tokens
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return app.Session.Resume(ctx, t)
}

// persist writes the current tokens, or removes the file once the session
// is gone.
func persist(app *storefront.App, path string) error {
	if !app.Session.State().Authenticated {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	data, err := json.Marshal(app.Session.Tokens())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func cmdLogin(ctx context.Context, app *storefront.App, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fset.String("email", "", "account email")
	password := fset.String("password", "", "account password")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("%w: login needs -email and -password", errUsage)
	}

	if err := app.Session.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Fprintf(out, "logged in as %s\n", app.Session.State().User.Email)
	return nil
}

func cmdLogout(ctx context.Context, app *storefront.App, _ []string, out io.Writer) error {
	app.Session.Logout(ctx)
	fmt.Fprintln(out, "logged out")
	return nil
}

func cmdCart(_ context.Context, app *storefront.App, _ []string, out io.Writer) error {
	if err := app.Cart.LastFetchError(); err != nil && !errors.Is(err, apiclient.ErrNotFound) {
		return fmt.Errorf("load cart: %w", err)
	}
	printCart(out, app.Cart.Snapshot())
	return nil
}

func cmdAdd(ctx context.Context, app *storefront.App, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("add", flag.ContinueOnError)
	variant := fset.Int64("variant", 0, "variant id")
	qty := fset.Int("qty", 1, "quantity")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if err := app.Cart.AddItem(ctx, *variant, *qty); err != nil {
		return err
	}
	printCart(out, app.Cart.Snapshot())
	return nil
}

func cmdUpdate(ctx context.Context, app *storefront.App, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("update", flag.ContinueOnError)
	item := fset.Int64("item", 0, "cart line id")
	qty := fset.Int("qty", 0, "new quantity")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if err := app.Cart.UpdateQuantity(ctx, *item, *qty); err != nil {
		return err
	}
	printCart(out, app.Cart.Snapshot())
	return nil
}

func cmdRemove(ctx context.Context, app *storefront.App, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("remove", flag.ContinueOnError)
	item := fset.Int64("item", 0, "cart line id")
	if err := fset.Parse(args); err != nil {
		return err
	}
	app.Cart.RemoveItem(ctx, *item)
	printCart(out, app.Cart.Snapshot())
	return nil
}

func cmdClear(ctx context.Context, app *storefront.App, _ []string, out io.Writer) error {
	if err := app.Cart.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "cart cleared")
	return nil
}

func cmdAddresses(ctx context.Context, app *storefront.App, _ []string, out io.Writer) error {
	addresses, err := app.Addresses.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tADDRESS\tDEFAULT")
	for _, a := range addresses {
		line := strings.Join(nonEmpty(a.Line1, a.Line2, a.City, a.PostalCode, a.Country), ", ")
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\n", a.ID, a.Label, line, a.IsDefault)
	}
	return tw.Flush()
}

func cmdCheckout(ctx context.Context, app *storefront.App, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("checkout", flag.ContinueOnError)
	address := fset.Int64("address", 0, "shipping address id (default address when 0)")
	coupon := fset.String("coupon", "", "coupon code")
	notes := fset.String("notes", "", "order notes")
	if err := fset.Parse(args); err != nil {
		return err
	}

	if err := app.Checkout.Ready(); err != nil {
		return err
	}
	if *address == 0 {
		def, err := app.Addresses.Default(ctx)
		if err != nil {
			return fmt.Errorf("pick address: %w", err)
		}
		*address = def.ID
	}

	res, err := app.Checkout.Submit(ctx, checkout.Request{
		ShippingAddressID: *address,
		CouponCode:        *coupon,
		Notes:             *notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "order %s placed, total %s\n", res.Order.OrderNumber, money(res.Order.Total))
	if !res.CartCleared() {
		fmt.Fprintf(out, "warning: the cart could not be emptied: %v\n", res.ClearErr)
	}
	return nil
}

func cmdOrders(ctx context.Context, app *storefront.App, _ []string, out io.Writer) error {
	orders, err := app.API.ListOrders(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tSTATUS\tITEMS\tTOTAL\tPLACED")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", o.OrderNumber, o.Status, len(o.Items), money(o.Total), o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func cmdVariant(ctx context.Context, app *storefront.App, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("variant", flag.ContinueOnError)
	id := fset.Int64("id", 0, "variant id")
	if err := fset.Parse(args); err != nil {
		return err
	}
	v, err := app.API.GetVariant(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d %s (%s) %s, %d in stock, active=%t\n", v.ID, v.ProductName, v.SKU, money(v.Price), v.Stock, v.Active)
	return nil
}

func cmdStock(ctx context.Context, app *storefront.App, args []string, out io.Writer) error {
	fset := flag.NewFlagSet("stock", flag.ContinueOnError)
	variant := fset.Int64("variant", 0, "variant id")
	qty := fset.Int("qty", 0, "units in stock")
	active := fset.Bool("active", true, "variant is for sale")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *variant <= 0 || *qty < 0 {
		return fmt.Errorf("%w: stock needs -variant and a non-negative -qty", errUsage)
	}
	v, err := app.API.SetVariantStock(ctx, *variant, *qty, *active)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "variant %d: %d in stock, active=%t\n", v.ID, v.Stock, v.Active)
	return nil
}

func printCart(out io.Writer, snap cart.Snapshot) {
	if snap.TotalItems == 0 {
		fmt.Fprintln(out, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tSKU\tQTY\tPRICE\tTOTAL")
	for _, it := range snap.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", it.ID, it.ProductName, it.SKU, it.Quantity, money(it.UnitPrice), money(it.TotalPrice))
	}
	fmt.Fprintf(tw, "\t\t\t%d\tsubtotal\t%s\n", snap.TotalItems, money(snap.Subtotal))
	fmt.Fprintf(tw, "\t\t\t\ttotal\t%s\n", money(snap.Total))
	tw.Flush()
}

func money(minor int64) string {
	sign := ""
	if minor < 0 {
		sign, minor = "-", -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
