// Command stress_test fires concurrent order creations at a running server
// to observe oversell behavior under contention: with quantity*requests
// exceeding the product's stock, some calls must fail with 400/409 and the
// final stock must never go negative.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	token := flag.String("token", "", "bearer token of the test user")
	productID := flag.Int64("product", 1, "product id to order")
	quantity := flag.Int("quantity", 1, "quantity per order")
	requests := flag.Int("requests", 50, "number of concurrent orders")
	flag.Parse()

	if *token == "" {
		log.Fatal("-token is required (register and login first)")
	}

	body, _ := json.Marshal(map[string]any{
		"items": []map[string]any{
			{"productId": *productID, "quantity": *quantity},
		},
	})

	client := &http.Client{Timeout: 10 * time.Second}

	var created, rejected, failed atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost, *addr+"/api/orders", bytes.NewReader(body))
			if err != nil {
				failed.Add(1)
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+*token)

			resp, err := client.Do(req)
			if err != nil {
				failed.Add(1)
				return
			}
			resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusBadRequest, http.StatusConflict:
				rejected.Add(1)
			default:
				failed.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	fmt.Printf("requests: %d, created: %d, rejected: %d, failed: %d, elapsed: %s\n",
		*requests, created.Load(), rejected.Load(), failed.Load(), elapsed)
}
