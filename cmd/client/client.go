package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

func main() {
	serverAddr := flag.String("server", "http://127.0.0.1:8080", "Base URL of the exchange server")
	owner := flag.String("owner", "", "Owner user id (compulsory for place)")
	action := flag.String("action", "place", "Action to perform: ['place', 'cancel', 'depth', 'get']; modify is not supported")

	base := flag.String("base", "BTC", "Trading pair base asset")
	quote := flag.String("quote", "USD", "Trading pair quote asset")
	sideStr := flag.String("side", "buy", "Order side: 'buy' or 'sell'")
	typeStr := flag.String("type", "limit", "Order type: 'limit' or 'market'")
	price := flag.String("price", "100.0", "Limit price")
	qtyStr := flag.String("qty", "10", "Quantity or comma-separated list (e.g. 10,20,50)")

	orderID := flag.Uint64("order-id", 0, "Order id, required for cancel/get")

	flag.Parse()

	if *owner == "" && *action == "place" {
		fmt.Println("Error: -owner is compulsory for place.")
		flag.Usage()
		os.Exit(1)
	}
	ownerID, err := strconv.ParseUint(*owner, 10, 64)
	if *owner != "" && err != nil {
		log.Fatalf("invalid -owner %q, expected a numeric user id: %v", *owner, err)
	}

	side := "BID"
	if strings.EqualFold(*sideStr, "sell") {
		side = "ASK"
	}

	c := &client{base: *serverAddr}

	switch strings.ToLower(*action) {
	case "place":
		for _, qty := range parseQuantities(*qtyStr) {
			if err := c.placeOrder(*base, *quote, *typeStr, side, *price, qty, ownerID); err != nil {
				log.Printf("failed to place order (qty %s): %v", qty, err)
				continue
			}
			fmt.Printf("-> sent %s %s order: %s/%s qty=%s\n", strings.ToUpper(*sideStr), *typeStr, *base, *quote, qty)
		}

	case "cancel":
		if *orderID == 0 {
			log.Fatal("Error: -order-id is required for cancel")
		}
		if err := c.cancelOrder(*base, *quote, *orderID); err != nil {
			log.Printf("failed to cancel order: %v", err)
			return
		}
		fmt.Printf("-> cancelled order %d\n", *orderID)

	case "get":
		if *orderID == 0 {
			log.Fatal("Error: -order-id is required for get")
		}
		body, err := c.getOrder(*base, *quote, *orderID)
		if err != nil {
			log.Printf("failed to get order: %v", err)
			return
		}
		fmt.Println(string(body))

	case "depth":
		body, err := c.depth(*base, *quote)
		if err != nil {
			log.Printf("failed to fetch depth: %v", err)
			return
		}
		fmt.Println(string(body))

	default:
		log.Fatalf("unknown action: %s", *action)
	}
}

// client is a thin wrapper around net/http for the JSON endpoints
// internal/httpapi exposes.
type client struct {
	base string
	http http.Client
}

func (c *client) post(path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(c.base+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, body)
	}
	return body, nil
}

func (c *client) get(path string) ([]byte, error) {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, body)
	}
	return body, nil
}

func (c *client) placeOrder(base, quote, orderType, side, price, qty string, owner uint64) error {
	pair := map[string]string{"base": base, "quote": quote}
	if strings.EqualFold(orderType, "market") {
		_, err := c.post("/orders/market", map[string]any{
			"trading_pair": pair,
			"order":        map[string]any{"side": side, "quantity": qty, "user_id": owner},
		})
		return err
	}
	_, err := c.post("/orders/limit", map[string]any{
		"trading_pair": pair,
		"order":        map[string]any{"side": side, "price": price, "quantity": qty, "user_id": owner},
	})
	return err
}

func (c *client) cancelOrder(base, quote string, orderID uint64) error {
	_, err := c.post("/orders/cancel", map[string]any{
		"trading_pair": map[string]string{"base": base, "quote": quote},
		"order_id":     orderID,
	})
	return err
}

func (c *client) getOrder(base, quote string, orderID uint64) ([]byte, error) {
	return c.post("/orders/get", map[string]any{
		"trading_pair": map[string]string{"base": base, "quote": quote},
		"order_id":     orderID,
	})
}

func (c *client) depth(base, quote string) ([]byte, error) {
	return c.get(fmt.Sprintf("/markets/%s/%s/depth", base, quote))
}

// parseQuantities splits a comma-separated string into a slice of
// quantity strings (decimal, so left unparsed; blank entries are skipped
// and the server validates the rest).
func parseQuantities(input string) []string {
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		result = append(result, p)
	}
	return result
}
