// Command loadtest creates posts concurrently against a running server and
// reports how many writes were accepted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"
)

func main() {
	base := flag.String("addr", "http://localhost:8080", "server base URL")
	total := flag.Int("n", 100, "number of posts to create")
	workers := flag.Int("c", 10, "concurrent workers")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{
		Timeout: 5 * time.Second,
		// A created post answers with a redirect; count it instead of following.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	endpoint := strings.TrimRight(*base, "/") + "/posts"
	jobs := make(chan int)
	codes := make(map[int]int)
	var mu sync.Mutex
	var wg sync.WaitGroup

	start := time.Now()
	for range *workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				code, err := createPost(ctx, client, endpoint, i)
				if err != nil && ctx.Err() == nil {
					log.Printf("failed to send POST request to [%s]: %v", endpoint, err)
				}

				mu.Lock()
				codes[code]++
				mu.Unlock()
			}
		}()
	}

	sent := 0
feed:
	for i := range *total {
		select {
		case jobs <- i:
			sent++
		case <-ctx.Done():
			log.Printf("interrupted: %v", ctx.Err())
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	log.Printf("sent %d of %d posts in %s", sent, *total, time.Since(start).Truncate(time.Millisecond))
	for code, n := range codes {
		log.Printf("status %d: %d", code, n)
	}
}

// createPost returns 0 as the status code when the request never completed.
func createPost(ctx context.Context, client *http.Client, endpoint string, i int) (int, error) {
	form := url.Values{
		"username": {fmt.Sprintf("loadtest-%d", i)},
		"content":  {fmt.Sprintf("post number %d", i)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	return res.StatusCode, nil
}
