package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL  string
	timeout  time.Duration
	apiToken string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coinfolio-cli",
		Short: "Coinfolio CLI tool",
		Long:  `A command line interface for interacting with the Coinfolio API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Coinfolio API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("COINFOLIO_TOKEN"), "API bearer token")

	// Asset reconciliation
	assetCmd := &cobra.Command{
		Use:   "asset [symbol]",
		Short: "Reconcile one asset across all sources",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			showAsset(args[0])
		},
	}
	rootCmd.AddCommand(assetCmd)

	// Portfolio commands
	portfolioCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Portfolio operations",
	}
	portfolioCmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show the per-asset overview",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/portfolio/summary")
		},
	})
	portfolioCmd.AddCommand(&cobra.Command{
		Use:   "performance",
		Short: "Show the 24h value change",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/portfolio/performance")
		},
	})
	portfolioCmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show stored snapshots",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/portfolio/history")
		},
	})
	rootCmd.AddCommand(portfolioCmd)

	// Transaction feed
	rootCmd.AddCommand(&cobra.Command{
		Use:   "transactions",
		Short: "Show the merged transaction feed, newest first",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/transactions")
		},
	})

	// Manual ledger commands
	manualCmd := &cobra.Command{
		Use:   "manual",
		Short: "Manual ledger operations",
	}

	var manualPrice string
	var manualWhen string
	addCmd := &cobra.Command{
		Use:   "add [kind] [symbol] [quantity]",
		Short: "Record a manual transaction (BUY, SELL, DEPOSIT, WITHDRAW)",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			addManual(args[0], args[1], args[2], manualPrice, manualWhen)
		},
	}
	addCmd.Flags().StringVar(&manualPrice, "price", "0", "Unit price in USD")
	addCmd.Flags().StringVar(&manualWhen, "at", "", "Occurrence time (RFC3339, defaults to now)")
	manualCmd.AddCommand(addCmd)

	manualCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List manual transactions",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/manual/")
		},
	})
	manualCmd.AddCommand(&cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a manual transaction",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deleteResource("/api/v1/manual/" + args[0])
		},
	})
	rootCmd.AddCommand(manualCmd)

	// Connection commands
	connectionsCmd := &cobra.Command{
		Use:   "connections",
		Short: "Exchange connection operations",
	}
	connectionsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured connections",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/connections/")
		},
	})

	var connLabel string
	connAddCmd := &cobra.Command{
		Use:   "add [exchange] [api-key] [api-secret]",
		Short: "Register exchange credentials",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			addConnection(args[0], args[1], args[2], connLabel)
		},
	}
	connAddCmd.Flags().StringVar(&connLabel, "label", "", "Human readable label")
	connectionsCmd.AddCommand(connAddCmd)

	connectionsCmd.AddCommand(&cobra.Command{
		Use:   "delete [id]",
		Short: "Remove a connection",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deleteResource("/api/v1/connections/" + args[0])
		},
	})
	rootCmd.AddCommand(connectionsCmd)

	// Price alert commands
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Price alert operations",
	}
	alertsCmd.AddCommand(&cobra.Command{
		Use:   "add [symbol] [condition] [target-price]",
		Short: "Arm a price alert (condition: ABOVE or BELOW)",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			addAlert(args[0], args[1], args[2])
		},
	})
	alertsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List alerts, fired ones included",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/alerts/")
		},
	})
	alertsCmd.AddCommand(&cobra.Command{
		Use:   "delete [id]",
		Short: "Remove an alert",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			deleteResource("/api/v1/alerts/" + args[0])
		},
	})
	rootCmd.AddCommand(alertsCmd)

	// Prices
	rootCmd.AddCommand(&cobra.Command{
		Use:   "prices",
		Short: "Show current spot prices",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/prices")
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+apiToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func doRequest(method, path string, body io.Reader) []byte {
	client := &http.Client{Timeout: timeout}

	req, err := newRequest(method, path, body)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(data))
		os.Exit(1)
	}

	return data
}

func getJSON(path string) {
	printJSON(doRequest(http.MethodGet, path, nil))
}

func deleteResource(path string) {
	doRequest(http.MethodDelete, path, nil)
	fmt.Println("Deleted")
}

func showAsset(symbol string) {
	printJSON(doRequest(http.MethodGet, "/api/v1/assets/"+symbol, nil))
}

func addManual(kind, symbol, quantity, price, when string) {
	payload := map[string]any{
		"kind":       kind,
		"symbol":     symbol,
		"quantity":   quantity,
		"unit_price": price,
	}
	if when != "" {
		payload["occurred_at"] = when
	}

	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	printJSON(doRequest(http.MethodPost, "/api/v1/manual/", bytes.NewReader(body)))
}

func addAlert(symbol, condition, targetPrice string) {
	body, err := json.Marshal(map[string]string{
		"symbol":       symbol,
		"condition":    condition,
		"target_price": targetPrice,
	})
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	printJSON(doRequest(http.MethodPost, "/api/v1/alerts/", bytes.NewReader(body)))
}

func addConnection(exchange, apiKey, apiSecret, label string) {
	body, err := json.Marshal(map[string]string{
		"exchange":   exchange,
		"label":      label,
		"api_key":    apiKey,
		"api_secret": apiSecret,
	})
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	printJSON(doRequest(http.MethodPost, "/api/v1/connections/", bytes.NewReader(body)))
}

// printJSON pretty prints an API response body.
func printJSON(data []byte) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		fmt.Println(string(data))
		return
	}
	fmt.Println(buf.String())
}
