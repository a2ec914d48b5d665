package database

import (
	"context"
	"regexp"
	"strings"
	"testing"
)

// captureDB records the final query and variables handed to Query.
type captureDB struct {
	query string
	vars  map[string]interface{}
}

func (c *captureDB) Connect(_ context.Context) error { return nil }
func (c *captureDB) Close() error                    { return nil }
func (c *captureDB) Ping(_ context.Context) error    { return nil }

func (c *captureDB) Query(_ context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	c.query = query
	c.vars = vars
	return nil, nil
}

func (c *captureDB) QueryOne(_ context.Context, _ string, _ map[string]interface{}) (interface{}, error) {
	return nil, nil
}

func (c *captureDB) Execute(_ context.Context, _ string, _ map[string]interface{}) error {
	return nil
}

var namespacedVarPattern = regexp.MustCompile(`\$(v\d+_\w+)`)

// assertAllReferencesBound fails if the rewritten query mentions a namespaced
// variable that Build did not bind.
func assertAllReferencesBound(t *testing.T, query string, vars map[string]interface{}) {
	t.Helper()
	for _, match := range namespacedVarPattern.FindAllStringSubmatch(query, -1) {
		if _, ok := vars[match[1]]; !ok {
			t.Fatalf("query references unbound variable $%s\nquery:\n%s", match[1], query)
		}
	}
}

// ===== TxBuilder =====

func TestTxBuilderAdd_PrefixSharingNames(t *testing.T) {
	t.Parallel()

	// Map iteration order is randomized, so one pass can get lucky; repeat
	// enough times to hit every replacement order.
	for i := 0; i < 100; i++ {
		tb := NewTxBuilder()
		mapping := tb.Add(
			`CREATE notification CONTENT { action: $action, action_url: $action_url, metadata: { action: $action } }`,
			map[string]interface{}{
				"action":     "updated",
				"action_url": "/dashboard",
			},
		)

		query, vars := tb.Build()

		assertAllReferencesBound(t, query, vars)

		if strings.Contains(query, "$action,") || strings.Contains(query, "$action ") {
			t.Fatalf("original variable survived rewriting:\n%s", query)
		}
		if got := vars[mapping["action"]]; got != "updated" {
			t.Errorf("expected %s bound to %q, got %v", mapping["action"], "updated", got)
		}
		if got := vars[mapping["action_url"]]; got != "/dashboard" {
			t.Errorf("expected %s bound to %q, got %v", mapping["action_url"], "/dashboard", got)
		}
		if !strings.Contains(query, "action_url: $"+mapping["action_url"]) {
			t.Fatalf("action_url not rewritten to its own binding:\n%s", query)
		}
	}
}

func TestTxBuilderAdd_SameNameAcrossStatements(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	first := tb.Add(`UPDATE $id SET position = $position`, map[string]interface{}{
		"id":       "task:one",
		"position": 1,
	})
	second := tb.Add(`UPDATE $id SET position = $position`, map[string]interface{}{
		"id":       "task:two",
		"position": 2,
	})

	if first["id"] == second["id"] || first["position"] == second["position"] {
		t.Fatal("expected distinct namespaced names per statement")
	}

	query, vars := tb.Build()
	assertAllReferencesBound(t, query, vars)

	if got := vars[first["id"]]; got != "task:one" {
		t.Errorf("expected first statement bound to task:one, got %v", got)
	}
	if got := vars[second["position"]]; got != 2 {
		t.Errorf("expected second statement bound to 2, got %v", got)
	}
}

func TestTxBuilderBuild_WrapsInTransaction(t *testing.T) {
	t.Parallel()

	tb := NewTxBuilder()
	tb.Add(`UPDATE $id SET position = $position`, map[string]interface{}{
		"id":       "category:setup",
		"position": 3,
	})

	query, _ := tb.Build()

	if !strings.HasPrefix(query, "BEGIN TRANSACTION;") {
		t.Errorf("expected transaction prefix, got %q", query)
	}
	if !strings.HasSuffix(query, "COMMIT TRANSACTION;") {
		t.Errorf("expected transaction suffix, got %q", query)
	}
}

func TestTxBuilderBuild_Empty(t *testing.T) {
	t.Parallel()

	query, vars := NewTxBuilder().Build()
	if query != "" || vars != nil {
		t.Errorf("expected empty build, got query=%q vars=%v", query, vars)
	}
}

// ===== AtomicBatch =====

func TestAtomicBatchExecute_FanOutBindings(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		db := &captureDB{}
		batch := NewAtomicBatch()
		for _, user := range []string{"user:alice", "user:bob"} {
			batch.Add(`CREATE notification CONTENT { user_id: $user_id, action: $action, action_url: $action_url }`,
				map[string]interface{}{
					"user_id":    user,
					"action":     "created",
					"action_url": "/checklist",
				})
		}

		if err := batch.Execute(context.Background(), db); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertAllReferencesBound(t, db.query, db.vars)
		if len(db.vars) != 6 {
			t.Fatalf("expected 6 bound variables, got %d: %v", len(db.vars), db.vars)
		}
	}
}

func TestAtomicBatchExecute_EmptyIsNoOp(t *testing.T) {
	t.Parallel()

	db := &captureDB{}
	if err := NewAtomicBatch().Execute(context.Background(), db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.query != "" {
		t.Errorf("expected no query for empty batch, got %q", db.query)
	}
}
