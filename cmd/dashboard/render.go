package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mirror_shop/internal/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printOfflineBanner(w io.Writer) {
	fmt.Fprintln(w, "*** Offline: the server could not be reached. Showing sample data; changes are kept locally. ***")
	fmt.Fprintln(w)
}

func printKPIs(w io.Writer, k models.KPI) {
	t := newTable(w)
	fmt.Fprintf(t, "Revenue today\t%.2f\n", k.RevenueToday)
	fmt.Fprintf(t, "Revenue this month\t%.2f\n", k.RevenueMonth)
	fmt.Fprintf(t, "Total orders\t%d\n", k.TotalOrders)
	fmt.Fprintf(t, "Active custom projects\t%d\n", k.ActiveCustomProjects)
	fmt.Fprintf(t, "Products in stock\t%d\n", k.InStock)
	fmt.Fprintf(t, "Products out of stock\t%d\n", k.OutOfStock)
	fmt.Fprintf(t, "Average order value\t%.2f\n", k.AverageOrderValue)
	fmt.Fprintf(t, "Outstanding balance\t%.2f\n", k.OutstandingBalance)
	t.Flush()
}

func printProducts(w io.Writer, products []models.Product) {
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tTYPE\tSHAPE\tSIZE\tPRICE\tSTOCK\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%s\t%.2f\t%d\t%s\n",
			p.ID, p.Name, p.Type, p.Shape, p.Dimensions, p.Price, p.Stock, p.Status)
	}
	t.Flush()
}

func printOrders(w io.Writer, orders []models.Order) {
	t := newTable(w)
	fmt.Fprintln(t, "ID\tDATE\tCUSTOMER\tTYPE\tTOTAL\tPAID\tDUE\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%s\n",
			o.ID, o.Date, o.CustomerName, o.Type, o.TotalPrice, o.PaidAmount, o.BalanceDue(), o.Status)
	}
	t.Flush()
}

func printOrderDetail(w io.Writer, o models.Order) {
	t := newTable(w)
	fmt.Fprintf(t, "Order\t%s\n", o.ID)
	fmt.Fprintf(t, "Date\t%s\n", o.Date)
	fmt.Fprintf(t, "Customer\t%s (%s)\n", o.CustomerName, o.CustomerID)
	fmt.Fprintf(t, "Type\t%s\n", o.Type)
	fmt.Fprintf(t, "Status\t%s\n", o.Status)
	fmt.Fprintf(t, "Total\t%.2f\n", o.TotalPrice)
	fmt.Fprintf(t, "Paid\t%.2f (%s)\n", o.PaidAmount, o.PaymentMethod)
	fmt.Fprintf(t, "Balance due\t%.2f\n", o.BalanceDue())
	if d := o.CustomDetails; d != nil {
		install := "no"
		if d.IsInstallationRequired {
			install = "yes"
		}
		fmt.Fprintf(t, "Dimensions\t%gx%g cm %s\n", d.Width, d.Height, d.Shape)
		fmt.Fprintf(t, "Frame\t%s, %s\n", d.FrameType, d.FrameColor)
		fmt.Fprintf(t, "Installation\t%s\n", install)
	}
	for _, item := range o.Items {
		fmt.Fprintf(t, "Item\t%s %.2f\n", item.Name, item.Price)
	}
	if next := models.NextStatuses(o.Status); len(next) > 0 {
		names := make([]string, len(next))
		for i, s := range next {
			names[i] = string(s)
		}
		fmt.Fprintf(t, "Can move to\t%s\n", strings.Join(names, ", "))
	}
	t.Flush()
}

func printCustomers(w io.Writer, customers []models.Customer) {
	t := newTable(w)
	fmt.Fprintln(t, "ID\tNAME\tPHONE\tCITY\tORDERS\tTOTAL SPENT")
	for _, c := range customers {
		fmt.Fprintf(t, "%s\t%s\t%s\t%s\t%d\t%.2f\n", c.ID, c.Name, c.Phone, c.City, c.OrderCount, c.TotalSpent)
	}
	t.Flush()
}
