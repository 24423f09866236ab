package seeder

import (
	"context"

	"jobboard/internal/database"
	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

// fixtureNS derives stable ids so reseeding never duplicates rows.
var fixtureNS = uuid.MustParse("3f6c1f0e-7d1a-4c57-9a55-1f0b2f8a6c41")

func fixtureID(name string) uuid.UUID {
	return uuid.NewSHA1(fixtureNS, []byte(name))
}

// DemoUsers are the accounts DemoUsersSeeder writes.
var DemoUsers = []user.User{
	{ID: fixtureID("user:admin"), Name: "Demo Admin", Email: "admin@jobboard.local", Role: user.RoleAdmin, IsVerified: true},
	{ID: fixtureID("user:client"), Name: "Demo Client", Email: "client@jobboard.local", Role: user.RoleClient, IsVerified: true},
	{ID: fixtureID("user:student"), Name: "Demo Student", Email: "student@jobboard.local", Role: user.RoleStudent, IsVerified: true},
	{ID: fixtureID("user:normal"), Name: "Demo Normal", Email: "normal@jobboard.local", Role: user.RoleNormal, IsVerified: true},
}

type DemoUsersSeeder struct{}

func (DemoUsersSeeder) Name() string { return "users" }

func (DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "role", "is_verified"); err != nil {
		return err
	}
	return runInTx(ctx, db, func(tx database.Tx) error {
		for _, u := range DemoUsers {
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, name, email, role, is_verified)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (id) DO NOTHING`,
				u.ID, u.Name, u.Email, string(u.Role), u.IsVerified,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
