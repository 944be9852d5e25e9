package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/infra"
)

// userplan is the operator-side subscription workflow: it flips a user's
// subscription flag and expiry without going through the HTTP API.
func main() {
	_ = godotenv.Load()

	var (
		idFlag        string
		subscribeFlag bool
		daysFlag      int
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (identity-provider subject)")
	flag.BoolVar(&subscribeFlag, "subscribe", true, "subscription state to set")
	flag.IntVar(&daysFlag, "days", 30, "subscription length in days from now (ignored when unsubscribing)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	if userID == "" {
		exitWithError(errors.New("-id is required"))
	}
	if subscribeFlag && daysFlag <= 0 {
		exitWithError(errors.New("-days must be positive when subscribing"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	users := repo.NewUserRepository(pool)

	var ends *time.Time
	if subscribeFlag {
		t := time.Now().Add(time.Duration(daysFlag) * 24 * time.Hour)
		ends = &t
	}

	user, err := users.SetSubscription(ctx, userID, subscribeFlag, ends)
	if err != nil {
		exitWithError(fmt.Errorf("update subscription: %w", err))
	}

	event := logger.Info().
		Str("user_id", user.ID).
		Bool("is_subscribed", user.IsSubscribed)
	if user.SubscriptionEnds != nil {
		event = event.Time("subscription_ends", *user.SubscriptionEnds)
	}
	event.Msg("subscription updated")
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "userplan:", err)
	os.Exit(1)
}
