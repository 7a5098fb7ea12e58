package main

import (
	"fmt"

	"github.com/toyz/synapse/pkg/synapse"
)

func main() {
	// Test wildcard name matching
	tests := []struct {
		pattern string
		names   []string
	}{
		{"order.*", []string{"order.created", "order.shipped", "payment.received"}},
		{"*.created", []string{"order.created", "user.created", "order.shipped"}},
		{"order.**", []string{"order", "order.created", "order.items.added", "payment.received"}},
	}

	fmt.Println("Testing event name patterns:")
	for _, test := range tests {
		pattern, err := synapse.NewNamePattern(test.pattern)
		if err != nil {
			fmt.Printf("Pattern %-12s -> compile error: %v\n", test.pattern, err)
			continue
		}
		for _, name := range test.names {
			if pattern.Matches(name) {
				fmt.Printf("Pattern: %-12s Name: %-20s -> ✓ Match\n", test.pattern, name)
			} else {
				fmt.Printf("Pattern: %-12s Name: %-20s -> no match\n", test.pattern, name)
			}
		}
		fmt.Println()
	}

	// Test invalid patterns
	fmt.Println("Testing invalid patterns:")
	invalidTests := []string{
		"",               // Empty pattern
		"order..created", // Empty segment
		"order.c*d",      // Wildcard mixed into a literal
		"order.***",      // Not a recognized wildcard
	}

	for _, test := range invalidTests {
		if _, err := synapse.NewNamePattern(test); err != nil {
			fmt.Printf("%-20q -> ✓ Correctly rejected: %v\n", test, err)
		} else {
			fmt.Printf("%-20q -> ✗ Should have been rejected\n", test)
		}
	}
}
