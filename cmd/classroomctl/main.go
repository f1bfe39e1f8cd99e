// Command classroomctl runs operator tasks against the classroom database:
// migrations, bootstrap accounts (admins included) and trophy re-evaluation.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
)

func main() {
	if err := newRootCmd(openDatabase).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
