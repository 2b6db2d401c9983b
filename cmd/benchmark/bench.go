package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

// bodies rotate across requests so the parse path sees routing prefixes,
// bare names, and suffixed variants rather than a single hot identifier.
var bodies = [][]byte{
	[]byte(`{"ids":["openai:gpt-4o-mini","anthropic:claude-3-5-sonnet-20241022"],"mode":"display"}`),
	[]byte(`{"ids":["openrouter:x-ai/grok-3-mini-beta[temp:0.7]"],"mode":"display"}`),
	[]byte(`{"ids":["together:meta-llama/Llama-3.1-70B-Instruct","grok-3-mini-beta"],"mode":"api"}`),
	[]byte(`{"ids":["gemini-1.5-pro-latest[temp:0][sp_idx:2]","deepseek-chat[sys:a1b2c3]"],"mode":"display"}`),
}

func main() {
	target := flag.String("target", "http://localhost:8080", "Base URL of a running server")
	apiKey := flag.String("key", "mi-test-1234567890", "API key for the Authorization header")
	duration := flag.Duration("duration", 10*time.Second, "Duration of the test")
	rate := flag.Int("rate", 100, "Requests per second")
	flag.Parse()

	waitForApp(*target + "/health")

	fmt.Printf("Running parse benchmark: %s duration, %d req/s against %s\n", *duration, *rate, *target)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	targeter := func(t *vegeta.Target) error {
		t.Method = "POST"
		t.URL = *target + "/v1/identifiers/parse"
		t.Body = bodies[rng.Intn(len(bodies))]
		t.Header = http.Header{
			"Content-Type":  []string{"application/json"},
			"Authorization": []string{"Bearer " + *apiKey},
		}
		return nil
	}

	attacker := vegeta.NewAttacker(vegeta.KeepAlive(true))
	var metrics vegeta.Metrics

	for res := range attacker.Attack(targeter, vegeta.Rate{Freq: *rate, Per: time.Second}, *duration, "Parse") {
		metrics.Add(res)
	}
	metrics.Close()

	fmt.Println("--------------------------------------------------")
	fmt.Println("99th percentile: ", metrics.Latencies.P99)
	fmt.Println("Mean:            ", metrics.Latencies.Mean)
	fmt.Println("Max:             ", metrics.Latencies.Max)
	fmt.Printf("Success:         %.2f%%\n", metrics.Success*100)
	fmt.Printf("Throughput:      %.2f req/s\n", metrics.Throughput)
	fmt.Println("--------------------------------------------------")

	if len(metrics.Errors) > 0 {
		fmt.Println("Error Set (first 5 unique):")

		uniqueErrors := make(map[string]bool)
		count := 0
		for _, msg := range metrics.Errors {
			if !uniqueErrors[msg] && count < 5 {
				fmt.Println(msg)

				uniqueErrors[msg] = true
				count++
			}
		}
	}
}

func waitForApp(url string) {
	client := http.Client{Timeout: 500 * time.Millisecond}
	for i := 0; i < 40; i++ {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	log.Fatalf("server at %s never became ready", url)
}
