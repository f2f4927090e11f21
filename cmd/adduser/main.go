// Command adduser creates a user account from the terminal. It prompts for
// email, username and a hidden password, hashes the password with bcrypt,
// and inserts the row directly through the users repository.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/teamsphere/api/internal/server/config"
	"github.com/teamsphere/api/internal/server/models"
	"github.com/teamsphere/api/internal/server/repositories/repomanager"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Printf("%s: ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	password, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	reader := bufio.NewReader(os.Stdin)

	email, err := promptLine(reader, "Email")
	if err != nil {
		return err
	}
	username, err := promptLine(reader, "Username")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	repos := repomanager.NewPostgresRepositoryManager()
	user, err := repos.Users(db).Create(ctx, &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{"ROLE_USER"},
	})
	if err != nil {
		return fmt.Errorf("user create error: %w", err)
	}

	fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
