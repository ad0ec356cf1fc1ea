package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mirror_shop/internal/dashboard"
	"mirror_shop/internal/models"
	"mirror_shop/internal/reports"
)

func (a *app) run(ctx context.Context, command string, args []string) error {
	if command == "sync" {
		return a.sync(ctx, args)
	}

	if _, err := a.controller.Load(ctx); err != nil {
		return err
	}
	if !a.controller.Connected() {
		printOfflineBanner(os.Stdout)
	}

	switch command {
	case "summary":
		return a.summary()
	case "products":
		printProducts(os.Stdout, a.controller.DisplayProducts())
		return nil
	case "orders":
		return a.orders(args)
	case "customers":
		printCustomers(os.Stdout, a.controller.Customers())
		return nil
	case "add-product":
		return a.addProduct(args)
	case "custom-order":
		return a.customOrder(args)
	case "delete-product":
		return a.deleteProduct(args)
	case "set-status":
		return a.setStatus(args)
	case "threshold":
		return a.threshold(ctx, args)
	case "export":
		return a.export(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) summary() error {
	printKPIs(os.Stdout, a.controller.KPIs(time.Now()))
	fmt.Println()
	printProducts(os.Stdout, a.controller.DisplayProducts())
	fmt.Println()
	printOrders(os.Stdout, a.controller.Orders())
	fmt.Println()
	printCustomers(os.Stdout, a.controller.Customers())
	return nil
}

func (a *app) orders(args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	id := fs.String("id", "", "show the details of one order")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		printOrders(os.Stdout, a.controller.Orders())
		return nil
	}
	if !a.controller.SelectOrder(*id) {
		return fmt.Errorf("order %s not found", *id)
	}
	order, _ := a.controller.SelectedOrder()
	printOrderDetail(os.Stdout, order)
	return nil
}

func (a *app) addProduct(args []string) error {
	fs := flag.NewFlagSet("add-product", flag.ContinueOnError)
	var form dashboard.ProductForm
	var mirrorType, shape string
	fs.StringVar(&form.Name, "name", "", "product name (required)")
	fs.StringVar(&form.Image, "image", "", "image URL")
	fs.StringVar(&mirrorType, "type", string(models.WallMirror), "Wall Mirror, Decorative, LED Mirror or Custom Cut")
	fs.StringVar(&shape, "shape", string(models.Rectangle), "Round, Square, Rectangle, Oval or Custom")
	fs.StringVar(&form.Dimensions, "dimensions", "", "e.g. 60x80cm")
	fs.Float64Var(&form.Price, "price", 0, "price")
	fs.IntVar(&form.Stock, "stock", 0, "units in stock")
	if err := fs.Parse(args); err != nil {
		return err
	}
	form.Type = models.MirrorType(mirrorType)
	form.Shape = models.MirrorShape(shape)

	product, err := a.controller.NewProduct(form)
	if err != nil {
		return err
	}
	a.controller.CreateProduct(product)
	fmt.Printf("Added %s (%s)\n", product.Name, product.ID)
	return nil
}

func (a *app) customOrder(args []string) error {
	fs := flag.NewFlagSet("custom-order", flag.ContinueOnError)
	var form dashboard.CustomOrderForm
	var shape, payment string
	fs.StringVar(&form.CustomerName, "name", "", "customer name (required)")
	fs.StringVar(&form.Phone, "phone", "", "customer phone (required)")
	fs.StringVar(&form.Address, "address", "", "street address")
	fs.StringVar(&form.City, "city", "", "city")
	fs.Float64Var(&form.Width, "width", 0, "width in cm")
	fs.Float64Var(&form.Height, "height", 0, "height in cm")
	fs.StringVar(&shape, "shape", string(models.Rectangle), "mirror shape")
	fs.StringVar(&form.FrameType, "frame-type", "Wood", "frame type")
	fs.StringVar(&form.FrameColor, "frame-color", "Black", "frame color")
	fs.BoolVar(&form.IsInstallationRequired, "install", false, "installation required")
	fs.Float64Var(&form.TotalPrice, "total", 0, "total price")
	fs.Float64Var(&form.PaidAmount, "paid", 0, "amount paid upfront")
	fs.StringVar(&payment, "payment", string(models.PaymentCash), "Cash, Transfer or Card")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(form.CustomerName) == "" || strings.TrimSpace(form.Phone) == "" {
		return fmt.Errorf("-name and -phone are required")
	}
	form.Shape = models.MirrorShape(shape)
	form.PaymentMethod = models.PaymentMethod(payment)

	order, customer := a.controller.NewCustomOrder(form)
	a.controller.CreateOrder(order, customer)
	fmt.Printf("Recorded %s for %s, balance due %.2f\n", order.ID, customer.Name, order.BalanceDue())
	return nil
}

func (a *app) deleteProduct(args []string) error {
	fs := flag.NewFlagSet("delete-product", flag.ContinueOnError)
	id := fs.String("id", "", "product id (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	confirm := func() bool { return askYesNo(os.Stdin, os.Stdout, "Are you sure you want to delete this product?") }
	if *yes {
		confirm = nil
	}
	if !a.controller.DeleteProduct(*id, confirm) {
		fmt.Println("Cancelled")
		return nil
	}
	fmt.Printf("Deleted %s\n", *id)
	return nil
}

func (a *app) setStatus(args []string) error {
	fs := flag.NewFlagSet("set-status", flag.ContinueOnError)
	id := fs.String("id", "", "order id (required)")
	status := fs.String("status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}

	next := models.OrderStatus(*status)
	if err := a.controller.UpdateOrderStatus(*id, next); err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", *id, next)
	return nil
}

func (a *app) threshold(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("threshold", flag.ContinueOnError)
	set := fs.Int("set", -1, "new low stock threshold")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *set >= 0 {
		if err := a.controller.SetLowStockThreshold(ctx, *set); err != nil {
			return err
		}
	}
	fmt.Printf("Low stock threshold: %d\n", a.controller.LowStockThreshold())
	return nil
}

func (a *app) export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	what := fs.String("what", "orders", "orders or products")
	out := fs.String("out", "", "output file (stdout when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", *out, err)
		}
		defer f.Close()
		w = f
	}

	switch *what {
	case "orders":
		return reports.WriteOrdersCSV(w, a.controller.Orders())
	case "products":
		return reports.WriteProductsCSV(w, a.controller.Products(), a.controller.LowStockThreshold())
	default:
		return fmt.Errorf("unknown export %q", *what)
	}
}

func (a *app) sync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep replaying on SYNC_INTERVAL until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	replayed, pending, err := a.reconciler.RunOnce(ctx)
	if err != nil {
		return err
	}
	if replayed == 0 {
		fmt.Printf("Nothing synced, %d write(s) pending\n", pending)
	}
	if !*watch {
		return nil
	}

	if err := a.reconciler.Start(a.cfg.SyncInterval); err != nil {
		return err
	}
	fmt.Printf("Replaying pending writes %s, Ctrl+C to stop\n", a.cfg.SyncInterval)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	return nil
}

func askYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
