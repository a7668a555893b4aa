package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config carries environment-driven settings for the engine process.
type Config struct {
	Port              string
	GatewayBaseURL    string
	GatewayToken      string
	ShopName          string
	SubscriptionPlan  string
	TaxRate           float64
	TableCount        int
	LowStockThreshold int
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints. An empty GATEWAY_BASE_URL selects the in-memory
// gateway, meant for local development only.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		GatewayBaseURL:    strings.TrimSpace(os.Getenv("GATEWAY_BASE_URL")),
		GatewayToken:      strings.TrimSpace(os.Getenv("GATEWAY_TOKEN")),
		ShopName:          envDefault("SHOP_NAME", "Komsyte"),
		SubscriptionPlan:  envDefault("SUBSCRIPTION_PLAN", "free"),
		TaxRate:           0.05,
		TableCount:        12,
		LowStockThreshold: 10,
	}
	if raw := strings.TrimSpace(os.Getenv("TAX_RATE")); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 || rate >= 1 {
			return Config{}, fmt.Errorf("TAX_RATE must be a fraction in [0, 1)")
		}
		cfg.TaxRate = rate
	}
	if raw := strings.TrimSpace(os.Getenv("TABLE_COUNT")); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count <= 0 {
			return Config{}, fmt.Errorf("TABLE_COUNT must be a positive integer")
		}
		cfg.TableCount = count
	}
	if raw := strings.TrimSpace(os.Getenv("LOW_STOCK_THRESHOLD")); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold <= 0 {
			return Config{}, fmt.Errorf("LOW_STOCK_THRESHOLD must be a positive integer")
		}
		cfg.LowStockThreshold = threshold
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
