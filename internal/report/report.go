// Package report renders the order ledger for operators: a terminal table
// and an Excel workbook.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/corray333/cloud-kitchen/internal/service/models/order"
	"github.com/olekukonko/tablewriter"
	"github.com/xuri/excelize/v2"
)

const (
	OrdersSheet = "Orders"
	ItemsSheet  = "Items"

	timeLayout = "2006-01-02 15:04"
)

var (
	orderHeader = []any{"ID", "Customer", "Email", "Status", "Payment", "Method", "Items", "Total", "Items Total", "Created"}
	itemHeader  = []any{"Order ID", "Item ID", "Menu Item ID", "Name", "Quantity", "Price", "Subtotal"}
)

// WriteOrdersTable prints one row per order. Total is what the customer was
// charged; Items Total re-adds the frozen lines, so a gap marks lines dropped
// or repriced at commit.
func WriteOrdersTable(w io.Writer, orders []order.Order) error {
	table := tablewriter.NewWriter(w)
	table.Header(orderHeader...)

	for _, o := range orders {
		err := table.Append([]string{
			strconv.FormatInt(o.ID, 10),
			o.CustomerName,
			o.CustomerEmail,
			o.Status.String(),
			o.PaymentStatus.String(),
			o.PaymentMethod.String(),
			strconv.Itoa(len(o.OrderItems)),
			o.TotalAmount.StringFixed(2),
			o.ItemsTotal().StringFixed(2),
			o.CreatedAt.Format(timeLayout),
		})
		if err != nil {
			return fmt.Errorf("failed to append order %d: %w", o.ID, err)
		}
	}

	return table.Render()
}

// OrdersWorkbook builds a workbook with an Orders sheet and an Items sheet.
// Money cells are written as numbers rounded to cents.
func OrdersWorkbook(orders []order.Order) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), OrdersSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(ItemsSheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(OrdersSheet, "A1", &orderHeader); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(ItemsSheet, "A1", &itemHeader); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, o := range orders {
		row := []any{
			o.ID,
			o.CustomerName,
			o.CustomerEmail,
			o.Status.String(),
			o.PaymentStatus.String(),
			o.PaymentMethod.String(),
			len(o.OrderItems),
			o.TotalAmount.Round(2).InexactFloat64(),
			o.ItemsTotal().Round(2).InexactFloat64(),
			o.CreatedAt.Format(timeLayout),
		}
		if err := setRow(f, OrdersSheet, i+2, row); err != nil {
			return nil, err
		}

		for _, item := range o.OrderItems {
			row := []any{
				o.ID,
				item.ID,
				item.MenuItemID,
				item.MenuItemName,
				item.Quantity,
				item.Price.Round(2).InexactFloat64(),
				item.Subtotal().Round(2).InexactFloat64(),
			}
			if err := setRow(f, ItemsSheet, itemRow, row); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	return f.SetSheetRow(sheet, cell, &values)
}
