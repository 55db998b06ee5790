package store

import (
	"strings"

	"github.com/relabs-tech/todoapp/core/csql"
)

// ddl returns the statements creating the schema for the dialect of db.
// Statements are idempotent.
func ddl(db *csql.DB) []string {
	serial, intArray, blob := "BIGSERIAL PRIMARY KEY", "BIGINT[]", "BYTEA"
	if db.Dialect == csql.SQLite {
		serial, intArray, blob = "INTEGER PRIMARY KEY AUTOINCREMENT", "TEXT", "BLOB"
	}
	r := strings.NewReplacer(
		"%serial%", serial,
		"%int_array%", intArray,
		"%blob%", blob,
	)

	ref := func(name, column string) string {
		return "REFERENCES " + db.Table(name) + "(" + column + ")"
	}
	create := func(name, columns string) string {
		return "CREATE TABLE IF NOT EXISTS " + db.Table(name) + " (\n" + r.Replace(columns) + "\n)"
	}
	index := func(name, column string) string {
		return "CREATE INDEX IF NOT EXISTS " + name + "_" + strings.ReplaceAll(column, ", ", "_") +
			"_idx ON " + db.Table(name) + "(" + column + ")"
	}

	return []string{
		create("time_utility_function", `time_utility_function_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
start_times %int_array% NOT NULL,
utils %int_array% NOT NULL`),

		create("user_generated_code", `user_generated_code_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
source_code TEXT NOT NULL,
source_lang TEXT NOT NULL,
wasm_cache %blob% NOT NULL,
wasm_cache_key TEXT NOT NULL DEFAULT ''`),

		create("goal", `goal_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL`),

		create("goal_data", `goal_data_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
goal_id BIGINT NOT NULL `+ref("goal", "goal_id")+`,
name TEXT NOT NULL,
duration_estimate BIGINT,
time_utility_function_id BIGINT NOT NULL `+ref("time_utility_function", "time_utility_function_id")+`,
status BIGINT NOT NULL`),
		index("goal_data", "goal_id"),

		create("goal_event", `goal_event_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
goal_id BIGINT NOT NULL `+ref("goal", "goal_id")+`,
start_time BIGINT NOT NULL,
end_time BIGINT NOT NULL,
active BOOLEAN NOT NULL`),
		index("goal_event", "goal_id"),

		create("goal_dependency", `goal_dependency_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
goal_id BIGINT NOT NULL `+ref("goal", "goal_id")+`,
dependent_goal_id BIGINT NOT NULL `+ref("goal", "goal_id")+`,
active BOOLEAN NOT NULL`),
		index("goal_dependency", "goal_id, dependent_goal_id"),

		create("named_entity", `named_entity_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL`),

		create("named_entity_data", `named_entity_data_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
named_entity_id BIGINT NOT NULL `+ref("named_entity", "named_entity_id")+`,
name TEXT NOT NULL,
kind BIGINT NOT NULL,
active BOOLEAN NOT NULL`),
		index("named_entity_data", "named_entity_id"),

		create("named_entity_pattern", `named_entity_pattern_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
named_entity_id BIGINT NOT NULL `+ref("named_entity", "named_entity_id")+`,
pattern TEXT NOT NULL,
active BOOLEAN NOT NULL`),
		index("named_entity_pattern", "named_entity_id"),

		create("goal_entity_tag", `goal_entity_tag_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
named_entity_id BIGINT NOT NULL `+ref("named_entity", "named_entity_id")+`,
goal_id BIGINT NOT NULL `+ref("goal", "goal_id")+`,
active BOOLEAN NOT NULL`),
		index("goal_entity_tag", "goal_id, named_entity_id"),

		create("goal_template", `goal_template_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL`),

		create("goal_template_data", `goal_template_data_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
goal_template_id BIGINT NOT NULL `+ref("goal_template", "goal_template_id")+`,
name TEXT NOT NULL,
utility BIGINT NOT NULL,
duration_estimate BIGINT,
user_generated_code_id BIGINT NOT NULL `+ref("user_generated_code", "user_generated_code_id")+`,
active BOOLEAN NOT NULL`),
		index("goal_template_data", "goal_template_id"),

		create("goal_template_pattern", `goal_template_pattern_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
goal_template_id BIGINT NOT NULL `+ref("goal_template", "goal_template_id")+`,
pattern TEXT NOT NULL,
active BOOLEAN NOT NULL`),
		index("goal_template_pattern", "goal_template_id"),

		create("external_event", `external_event_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL`),

		create("external_event_data", `external_event_data_id %serial%,
creation_time BIGINT NOT NULL,
creator_user_id BIGINT NOT NULL,
external_event_id BIGINT NOT NULL `+ref("external_event", "external_event_id")+`,
name TEXT NOT NULL,
start_time BIGINT NOT NULL,
end_time BIGINT NOT NULL,
active BOOLEAN NOT NULL`),
		index("external_event_data", "external_event_id"),
	}
}
