package yamlfixtures

// YAMLFixtures is the on-disk shape of fixtures/orders.yaml. Orders are kept
// as raw mappings so they go through the same validation as HTTP bodies.
type YAMLFixtures struct {
	Default map[string]any            `yaml:"default"`
	Orders  map[string]map[string]any `yaml:"orders"`
}
