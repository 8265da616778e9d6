package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-demo-go-stdlib/pkg/database"
)

// UserRepo provides data access for the users table. It holds no connection;
// every call runs on the Conn acquired for the current request.
type UserRepo struct{}

func NewUserRepo() *UserRepo { return &UserRepo{} }

const ddlMySQL = `CREATE TABLE IF NOT EXISTS users (
  id INT AUTO_INCREMENT PRIMARY KEY,
  name VARCHAR(100),
  email VARCHAR(100),
  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const ddlPostgres = `CREATE TABLE IF NOT EXISTS users (
  id SERIAL PRIMARY KEY,
  name VARCHAR(100),
  email VARCHAR(100),
  created_at TIMESTAMPTZ DEFAULT NOW()
)`

const seedUsers = `INSERT INTO users (name, email) VALUES
  ('John Doe', 'john@example.com'),
  ('Jane Smith', 'jane@example.com')`

// EnsureTable creates the users table if not exists (idempotent).
func (r *UserRepo) EnsureTable(ctx context.Context, conn *database.Conn) error {
	ddl := ddlMySQL
	if conn.Driver() == database.DriverPostgres {
		ddl = ddlPostgres
	}
	_, err := conn.Execute(ctx, ddl)
	return err
}

// Count returns the number of rows in users.
func (r *UserRepo) Count(ctx context.Context, conn *database.Conn) (int64, error) {
	var n int64
	if err := conn.Get(ctx, &n, `SELECT COUNT(*) AS count FROM users`); err != nil {
		return 0, err
	}
	return n, nil
}

// SeedDefaults inserts the two demo users in one statement.
func (r *UserRepo) SeedDefaults(ctx context.Context, conn *database.Conn) (int64, error) {
	return conn.Execute(ctx, seedUsers)
}

// List returns every user in the store's natural scan order.
func (r *UserRepo) List(ctx context.Context, conn *database.Conn) ([]entity.User, error) {
	const q = `SELECT id, COALESCE(name, '') AS name, COALESCE(email, '') AS email, created_at FROM users`
	users := []entity.User{}
	if err := conn.Query(ctx, &users, q); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a user and fills in the store-assigned ID.
func (r *UserRepo) Create(ctx context.Context, conn *database.Conn, u *entity.User) (int64, error) {
	id, err := conn.Insert(ctx, `INSERT INTO users (name, email) VALUES (?, ?)`, u.Name, u.Email)
	if err != nil {
		return 0, err
	}
	u.ID = id
	return id, nil
}
