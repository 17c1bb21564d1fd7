package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"chirp/backend/internal/graph"
	"chirp/backend/internal/social"
	"chirp/backend/pkg/config"
	"chirp/backend/pkg/logger"
)

// Seeds a small demo graph: three users, a follow chain, tweets with
// hashtags, a retweet, a comment and some likes.
func main() {
	reset := flag.Bool("reset", false, "Detach-delete all seeded nodes first")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""))
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(ctx)

	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	if *reset {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		_, err := session.Run(ctx, "MATCH (n) WHERE n:User OR n:Tweet OR n:ReTweet OR n:Comment OR n:Hashtag DETACH DELETE n", nil)
		session.Close(ctx)
		if err != nil {
			log.Fatal("Failed to reset graph", zap.Error(err))
		}
		log.Info("Graph reset")
	}

	repo := graph.NewRepository(driver, cfg.DefaultPageLimit)
	if err := repo.EnsureConstraints(ctx); err != nil {
		log.Fatal("Failed to ensure constraints", zap.Error(err))
	}

	engine := social.NewEngine(repo, social.DefaultPolicy())

	uids := []string{"alice", "bob", "carol"}
	for _, uid := range uids {
		if _, err := engine.EnsureUser(ctx, uid); err != nil {
			log.Fatal("Failed to seed user", zap.String("uid", uid), zap.Error(err))
		}
	}

	alice := social.Principal{UserUID: "alice", IsAuthenticated: true, IsVerified: true}
	bob := social.Principal{UserUID: "bob", IsAuthenticated: true, IsVerified: true}
	carol := social.Principal{UserUID: "carol", IsAuthenticated: true, IsVerified: true}

	if _, err := engine.Follow(ctx, bob, "alice"); err != nil {
		log.Warn("Seed follow skipped", zap.Error(err))
	}
	if _, err := engine.Follow(ctx, carol, "alice"); err != nil {
		log.Warn("Seed follow skipped", zap.Error(err))
	}
	if _, err := engine.Follow(ctx, carol, "bob"); err != nil {
		log.Warn("Seed follow skipped", zap.Error(err))
	}

	tweet, err := engine.CreateTweet(ctx, alice, "Hello from the graph", []string{"golang", "neo4j"})
	if err != nil {
		log.Fatal("Failed to seed tweet", zap.Error(err))
	}

	if _, err := engine.CreateTweet(ctx, bob, "Second seeded tweet #golang", []string{"golang"}); err != nil {
		log.Fatal("Failed to seed tweet", zap.Error(err))
	}

	if _, err := engine.CreateRetweet(ctx, bob, tweet.UID); err != nil {
		log.Warn("Seed retweet skipped", zap.Error(err))
	}
	if _, err := engine.Comment(ctx, carol, tweet.UID, "TweetType", "Nice one"); err != nil {
		log.Warn("Seed comment skipped", zap.Error(err))
	}
	if _, err := engine.Like(ctx, carol, tweet.UID, "TweetType"); err != nil {
		log.Warn("Seed like skipped", zap.Error(err))
	}

	log.Info("Seed complete", zap.String("tweet_uid", tweet.UID))
}
