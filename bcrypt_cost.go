//go:build !race

package auth

// Cost 12 keeps verification around 100ms on current server hardware.
func passwordHashCost() int {
	return 12
}
