// Package yamlfixtures loads the per-user v2 orders the mock server serves.
package yamlfixtures

import (
	_ "embed"
	"os"
	"sort"

	"github.com/aalvaropc/ordercompat/internal/domain"
	"github.com/aalvaropc/ordercompat/internal/ports"
	"gopkg.in/yaml.v3"
)

//go:embed orders.yaml
var builtinYAML []byte

// Fixtures maps user ids to v2 orders.
type Fixtures struct {
	orders   map[string]domain.OrderV2
	fallback domain.OrderV2
}

var _ ports.FixtureSource = (*Fixtures)(nil)

// Load reads a fixtures file.
func Load(path string) (*Fixtures, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlfixtures.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return Parse(path, b)
}

// Parse decodes fixtures from YAML; path is only used in errors.
func Parse(path string, b []byte) (*Fixtures, error) {
	var dto YAMLFixtures
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, &domain.OpError{
			Op:   "yamlfixtures.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return MapFixtures(path, dto)
}

// Builtin returns the fixture set shipped with the binary (users 123, 456,
// 789 and 555).
func Builtin() *Fixtures {
	f, err := Parse("builtin:orders.yaml", builtinYAML)
	if err != nil {
		panic(err)
	}
	return f
}

// BuiltinYAML is the source of Builtin, used to scaffold workspaces.
func BuiltinYAML() []byte {
	out := make([]byte, len(builtinYAML))
	copy(out, builtinYAML)
	return out
}

// Order returns the fixture for userID. Unknown users get the default order
// with an orderId derived from the user id.
func (f *Fixtures) Order(userID string) domain.OrderV2 {
	if o, ok := f.orders[userID]; ok {
		return o
	}
	o := f.fallback
	o.OrderID = domain.Str("ORD-" + userID)
	return o
}

// Users lists the known user ids, sorted.
func (f *Fixtures) Users() []string {
	out := make([]string, 0, len(f.orders))
	for u := range f.orders {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func defaultOrder() domain.OrderV2 {
	return domain.OrderV2{
		State:  domain.Str(string(domain.StatePaid)),
		Amount: domain.Num(100.0),
		LineItems: []domain.LineItem{
			{Name: domain.Str("Generic"), Quantity: domain.Num(1)},
		},
	}
}
