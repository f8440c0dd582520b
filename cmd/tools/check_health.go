package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"storepilot/config"
	"storepilot/internal/llm"
	"storepilot/internal/shopify"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	timeout := flag.Duration("timeout", 30*time.Second, "timeout per check")
	flag.Parse()

	fmt.Println("🔍 Starting Store Assistant Health Check...")
	fmt.Println("----------------------------------------")

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("❌ FAIL: config - Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("⚠️ WARN: config incomplete - %v\n", err)
	}

	failed := 0

	// 1. Shopify Admin API
	fmt.Printf("\n[Shopify] %s\n", cfg.Shopify.GraphQLURL())
	store := shopify.NewService(shopify.NewClient(cfg.Shopify))
	if !checkStore(store, *timeout) {
		failed++
	}

	// 2. Language model
	fmt.Printf("\n[LLM] provider=%s model=%s\n", cfg.LLM.Provider, cfg.LLM.ModelName)
	provider, err := llm.New(cfg.LLM)
	if err != nil {
		fmt.Printf("❌ FAIL: %-20s - Error: %v\n", "provider", err)
		failed++
	} else if !checkLLM(provider, *timeout) {
		failed++
	}

	fmt.Println("----------------------------------------")
	if failed > 0 {
		fmt.Printf("❌ Health Check Completed with %d failure(s).\n", failed)
		os.Exit(1)
	}
	fmt.Println("✅ Health Check Completed.")
}

func checkStore(store *shopify.Service, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	raw, err := store.StoreInfo(ctx)
	duration := time.Since(start)
	if err != nil {
		fmt.Printf("❌ FAIL: %-20s - Error: %v\n", "store info", err)
		return false
	}

	var resp struct {
		Data struct {
			Shop struct {
				Name            string `json:"name"`
				MyshopifyDomain string `json:"myshopifyDomain"`
			} `json:"shop"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		fmt.Printf("❌ FAIL: %-20s - Error: %v\n", "store info", err)
		return false
	}
	if len(resp.Errors) > 0 {
		fmt.Printf("❌ FAIL: %-20s - GraphQL error: %s\n", "store info", resp.Errors[0].Message)
		return false
	}
	fmt.Printf("✅ PASS: %-20s - %s (%s) (took %v)\n", "store info", resp.Data.Shop.Name, resp.Data.Shop.MyshopifyDomain, duration)
	return true
}

func checkLLM(provider llm.Provider, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	reply, err := provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: "Reply with the single word: pong"},
	})
	duration := time.Since(start)
	if err != nil {
		fmt.Printf("❌ FAIL: %-20s - Error: %v\n", "chat", err)
		return false
	}
	if reply == "" {
		fmt.Printf("⚠️ WARN: %-20s - OK but empty reply (took %v)\n", "chat", duration)
		return true
	}
	fmt.Printf("✅ PASS: %-20s - %q (took %v)\n", "chat", reply, duration)
	return true
}
