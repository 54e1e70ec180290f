package repository

import (
	"github.com/JonnyWalker81/adhere/backend/internal/repository/postgres"
	"github.com/JonnyWalker81/adhere/backend/pkg/supabase"
)

// Storage backends
const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
)

// NewSupabaseRepositories wires every repository to the PostgREST client
func NewSupabaseRepositories(client *supabase.Client) Repositories {
	return Repositories{
		Doses:     NewDoseEventRepository(client),
		CheckIns:  NewCheckInRepository(client),
		Efficacy:  NewEfficacyRepository(client),
		Vitals:    NewVitalRepository(client),
		Users:     NewUserRepository(client),
		Snapshots: NewSnapshotRepository(client),
	}
}

// NewPostgresRepositories wires every repository to a pgx connection
func NewPostgresRepositories(conn postgres.PgConnection) Repositories {
	return Repositories{
		Doses:     postgres.NewDoseEventRepo(conn),
		CheckIns:  postgres.NewCheckInRepo(conn),
		Efficacy:  postgres.NewEfficacyRepo(conn),
		Vitals:    postgres.NewVitalRepo(conn),
		Users:     postgres.NewUserRepo(conn),
		Snapshots: postgres.NewSnapshotRepo(conn),
	}
}
