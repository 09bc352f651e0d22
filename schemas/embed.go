// Package schemas embeds the SQL files applied by the migrate command.
package schemas

import "embed"

// Migrations contains all SQL migration files in apply order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
