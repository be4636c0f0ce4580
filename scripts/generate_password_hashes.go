package main

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Prints bcrypt hashes for the seed accounts used by the local
// development database.
func main() {
	fmt.Println("Generating bcrypt password hashes with DefaultCost (10):")
	fmt.Println()

	for _, cred := range []struct {
		label    string
		password string
	}{
		{"admin", "admin123"},
		{"moderator", "moderator123"},
		{"reader", "readerpass123"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(cred.password), bcrypt.DefaultCost)
		if err != nil {
			fmt.Printf("%s: %v\n", cred.label, err)
			continue
		}
		fmt.Printf("%s\nPassword: %s\nHash: %s\n\n", cred.label, cred.password, hash)
	}
}
