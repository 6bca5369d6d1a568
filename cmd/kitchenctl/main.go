package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/corray333/cloud-kitchen/internal/app"
	"github.com/corray333/cloud-kitchen/internal/config"
	grpcclient "github.com/corray333/cloud-kitchen/internal/dal/grpc"
	"github.com/corray333/cloud-kitchen/internal/report"
	"github.com/corray333/cloud-kitchen/internal/service/services/menusvc"
	"github.com/corray333/cloud-kitchen/internal/service/services/ordersvc"
	grpctransport "github.com/corray333/cloud-kitchen/internal/transport/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

const usage = `usage: kitchenctl <command> [flags]

commands:
  seed                      insert the sample menu when the menu is empty
  orders [-limit N]         print recent orders
  export [-out FILE]        write orders and their items to an xlsx workbook
  health                    ask a running kitchen for its gRPC health status
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	config.MustInit()

	if os.Args[1] == "health" {
		if err := checkHealth(context.Background()); err != nil {
			slog.Error("Command failed", "command", "health", "error", err)
			os.Exit(1)
		}

		return
	}

	datastore := app.MustOpenDatastore()
	ctx := context.Background()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "seed":
		err = seed(ctx, datastore)
	case "orders":
		err = listOrders(ctx, datastore, args)
	case "export":
		err = export(ctx, datastore, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	datastore.Close()
	if err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, datastore app.Datastore) error {
	svc := menusvc.MustNewMenuService(menusvc.WithUnitOfWorkFactory(datastore.Factory))

	n, err := svc.SeedDefaults(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("seeded %d menu items\n", n)

	return nil
}

func listOrders(ctx context.Context, datastore app.Datastore, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	limit := fs.Int("limit", 20, "number of orders to print")
	offset := fs.Int("offset", 0, "number of newest orders to skip")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := ordersvc.MustNewOrderService(ordersvc.WithUnitOfWorkFactory(datastore.Factory))

	orders, err := svc.List(ctx, ordersvc.ListFilter{Limit: *limit, Offset: *offset})
	if err != nil {
		return err
	}

	return report.WriteOrdersTable(os.Stdout, orders)
}

func export(ctx context.Context, datastore app.Datastore, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "orders.xlsx", "output workbook path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc := ordersvc.MustNewOrderService(ordersvc.WithUnitOfWorkFactory(datastore.Factory))

	orders, err := svc.List(ctx, ordersvc.ListFilter{})
	if err != nil {
		return err
	}

	f, err := report.OrdersWorkbook(orders)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SaveAs(*out); err != nil {
		return fmt.Errorf("failed to save %s: %w", *out, err)
	}

	fmt.Printf("exported %d orders to %s\n", len(orders), *out)

	return nil
}

func checkHealth(ctx context.Context) error {
	client := grpcclient.MustNewClient()
	defer func() { _ = client.Close() }()

	resp, err := client.Check(ctx, grpctransport.ServiceName)
	if err != nil {
		return err
	}

	out, err := protojson.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode health response: %w", err)
	}
	fmt.Println(string(out))

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("kitchen is %s", resp.GetStatus())
	}

	return nil
}
