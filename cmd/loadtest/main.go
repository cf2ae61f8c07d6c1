package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "stock-service base URL")
	initialStock := flag.Int("stock", 20, "quantity of the item created for the run")
	totalRequests := flag.Int("requests", 50, "number of concurrent purchases")
	flag.Parse()

	log := logrus.New()
	client := &http.Client{Timeout: 10 * time.Second}
	ctx := context.Background()

	id, err := createItem(ctx, client, *baseURL, *initialStock)
	if err != nil {
		log.WithError(err).Fatal("failed to create item")
	}

	// Counters
	var successCount atomic.Int32
	var soldOutCount atomic.Int32
	var otherCount atomic.Int32

	var g errgroup.Group
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		g.Go(func() error {
			status, err := purchase(ctx, client, *baseURL, id, uuid.NewString())
			if err != nil {
				return err
			}
			switch status {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusBadRequest:
				soldOutCount.Add(1)
			default:
				otherCount.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("purchase request failed")
	}
	elapsed := time.Since(start)

	remaining, err := getQuantity(ctx, client, *baseURL, id)
	if err != nil {
		log.WithError(err).Fatal("failed to read item")
	}

	success := int(successCount.Load())
	soldOut := int(soldOutCount.Load())

	fmt.Println("========== LOAD TEST RESULTS ==========")
	fmt.Printf("Item ID:          %d\n", id)
	fmt.Printf("Initial Stock:    %d\n", *initialStock)
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Sold out:         %d\n", soldOut)
	fmt.Printf("Other:            %d\n", otherCount.Load())
	fmt.Printf("Remaining Stock:  %d\n", remaining)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("=======================================")

	expected := min(*initialStock, *totalRequests)
	ok := true
	if success != expected {
		fmt.Printf("FAIL: expected %d successful purchases, got %d\n", expected, success)
		ok = false
	}
	if remaining != *initialStock-success {
		fmt.Printf("FAIL: expected remaining stock %d, got %d\n", *initialStock-success, remaining)
		ok = false
	}
	if !ok {
		os.Exit(1)
	}
	fmt.Println("PASS: no oversell")
}

func createItem(ctx context.Context, client *http.Client, baseURL string, quantity int) (int64, error) {
	body := fmt.Sprintf(`{"nome":"loadtest-%d","quantidade":%d}`, time.Now().Unix(), quantity)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/item", strings.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "create item")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return 0, errors.Errorf("create item: unexpected status %d", resp.StatusCode)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, errors.Wrap(err, "decode create response")
	}
	return created.ID, nil
}

func purchase(ctx context.Context, client *http.Client, baseURL string, id int64, key string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/item/comprar/%d", baseURL, id), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Idempotency-Key", key)

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "purchase item %d", id)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func getQuantity(ctx context.Context, client *http.Client, baseURL string, id int64) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/item/%d", baseURL, id), nil)
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "get item %d", id)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("get item %d: unexpected status %d", id, resp.StatusCode)
	}
	var item struct {
		Quantidade int `json:"quantidade"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return 0, errors.Wrap(err, "decode item")
	}
	return item.Quantidade, nil
}
