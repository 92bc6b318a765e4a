package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hardikpatel/shopkart-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestInventoryMovementsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_inventory_movements.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS inventory_movements",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"CHECK (new_stock >= 0)",
		"CHECK (type IN ('in', 'out', 'adjustment'))",
		"DROP TABLE IF EXISTS inventory_movements",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCouponsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_coupons.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS coupons",
		"CHECK (discount_type IN ('percentage', 'fixed'))",
		"CHECK (used_count >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_coupons_code ON coupons (code)",
		"DROP TABLE IF EXISTS coupons",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsStatusCheck(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (status IN ('pending', 'confirmed', 'shipped', 'delivered', 'cancelled'))",
		"CHECK (payment_method IN ('cod', 'razorpay', 'cashfree'))",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
