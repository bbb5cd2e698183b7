// Package graph stores wardrobes in Neo4j. A Client is an alternative
// wardrobe.Source to the SQLite store and can receive exports from it.
//
// Graph shape:
//
//	(:User {id})-[:OWNS]->(:Item {id, position, ...})-[:IN_CATEGORY]->(:Category {name})
//	(:User)-[:PLANS]->(:Day {position, day, date, plan_json})-[:RECOMMENDS]->(:Item)
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// connectTimeout bounds the connectivity check in NewClient.
const connectTimeout = 10 * time.Second

// Config holds Neo4j connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// Client wraps a Neo4j driver bound to one database.
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewClient connects to Neo4j and verifies the connection before returning.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j uri is empty")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	return &Client{driver: driver, database: cfg.Database}, nil
}

// Close releases the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Health runs a trivial read query.
func (c *Client) Health(ctx context.Context) error {
	_, err := neo4j.ExecuteQuery(ctx, c.driver, "RETURN 1", nil,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(c.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return fmt.Errorf("neo4j health check: %w", err)
	}
	return nil
}

// EnsureConstraints creates the uniqueness constraints the exporter relies on.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	stmts := []string{
		"CREATE CONSTRAINT closetwatch_user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE",
		"CREATE CONSTRAINT closetwatch_item_id IF NOT EXISTS FOR (i:Item) REQUIRE i.id IS UNIQUE",
		"CREATE CONSTRAINT closetwatch_category_name IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE",
	}
	for _, q := range stmts {
		_, err := neo4j.ExecuteQuery(ctx, c.driver, q, nil,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(c.database),
			neo4j.ExecuteQueryWithWritersRouting())
		if err != nil {
			return fmt.Errorf("creating constraint: %w", err)
		}
	}
	return nil
}

func (c *Client) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.database,
		AccessMode:   mode,
	})
}

// collect runs q inside tx and returns every record as a key/value map.
func collect(ctx context.Context, tx neo4j.ManagedTransaction, q string, params map[string]any) ([]map[string]any, error) {
	result, err := tx.Run(ctx, q, params)
	if err != nil {
		return nil, err
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.AsMap())
	}
	return rows, nil
}
