// Command loadtest replays a list of CEPs against a running webhook endpoint
// and reports, per CEP, the latency and the first line of the reply. Useful
// for smoke-testing the full pipeline against real upstream services.
//
// Usage:
//
//	go run ./cmd/loadtest \
//	  -endpoint http://localhost:8080/api/webhook \
//	  -ceps testdata/ceps.txt \
//	  -delay 500ms
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

type webhookPayload struct {
	Variables map[string]string `json:"variables"`
}

type webhookReply struct {
	Reply string `json:"reply"`
}

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/api/webhook", "webhook endpoint URL")
	cepsFile := flag.String("ceps", "", "file with one CEP per line (# comments allowed)")
	delay := flag.Duration("delay", 500*time.Millisecond, "pause between requests")
	timeout := flag.Duration("timeout", 15*time.Second, "per-request timeout")
	flag.Parse()

	if *cepsFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	ceps, err := loadCEPs(*cepsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CEPs: %v\n", err)
		os.Exit(1)
	}
	if len(ceps) == 0 {
		fmt.Fprintln(os.Stderr, "FATAL: no CEPs to send")
		os.Exit(1)
	}

	fmt.Printf("=== Webhook replay: %d CEPs against %s ===\n\n", len(ceps), *endpoint)

	client := &http.Client{Timeout: *timeout}
	var failures int
	var totalLatency time.Duration

	for i, cep := range ceps {
		reply, latency, err := send(client, *endpoint, cep)
		totalLatency += latency
		if err != nil {
			failures++
			fmt.Printf("  [%3d/%3d] %-10s %8s  \033[31mERROR\033[0m %v\n", i+1, len(ceps), cep, roundMs(latency), err)
		} else {
			fmt.Printf("  [%3d/%3d] %-10s %8s  %s\n", i+1, len(ceps), cep, roundMs(latency), firstLine(reply))
		}

		if i < len(ceps)-1 {
			time.Sleep(*delay)
		}
	}

	fmt.Printf("\nDone: %d sent, %d failed, avg latency %s\n",
		len(ceps), failures, roundMs(totalLatency/time.Duration(len(ceps))))
	if failures > 0 {
		os.Exit(1)
	}
}

func loadCEPs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var ceps []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ceps = append(ceps, line)
	}
	return ceps, scanner.Err()
}

func send(client *http.Client, endpoint, cep string) (string, time.Duration, error) {
	payload, err := json.Marshal(webhookPayload{
		Variables: map[string]string{"CEP_usuario": cep},
	})
	if err != nil {
		return "", 0, err
	}

	start := time.Now()
	resp, err := client.Post(endpoint, "application/json", bytes.NewReader(payload))
	latency := time.Since(start)
	if err != nil {
		return "", latency, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", latency, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body webhookReply
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", latency, fmt.Errorf("decode reply: %w", err)
	}
	return body.Reply, latency, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func roundMs(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
