/*
Package backend implements the todo app API

A backend stores goals, goal templates, named entities, external events,
time utility functions and user generated code in a Postgres or SQLite
database and serves them over a JSON-RPC style HTTP API.

Revisions

Most entities are split into an immutable identity row and a sequence of data
rows. The identity row (e.g. a goal) carries the owner and the creation time,
every change appends a new data row (e.g. a goal data) which references it.
Nothing is ever updated in place. The most recent data row of an identity is
its current state, and an association (a goal dependency, a goal entity tag,
a pattern) is in effect if its most recent row is active.

Routes

Every entity has two routes:

  POST /public/<entity>/new
  POST /public/<entity>/view

where <entity> is one of goal, goal_data, goal_event, goal_dependency,
goal_entity_tag, goal_template, goal_template_data, goal_template_pattern,
named_entity, named_entity_data, named_entity_pattern, external_event,
external_event_data, time_utility_function and user_generated_code.

The body of every request is a JSON object which carries the api key of the
caller:

  curl -X POST http://localhost:8080/public/goal/new \
    -d '{"apiKey":"...","name":"write report","timeUtilityFunctionId":1,"timeSpan":[100,200]}'

New requests return the created row, view requests return a list of rows. View
requests filter by any combination of ids, creation time ranges and foreign
keys, with "onlyRecent" restricting the result to the most recent revision and
"offset"/"count" paging through the result. Callers only ever see rows they
created themselves.

Responses

Responses are wrapped in an envelope. A successful response looks like

  {"Ok": {...}}

and a failed one like

  {"Err": "GOAL_NONEXISTENT"}

with the HTTP status derived from the error: 400 for malformed or invalid
requests, 401 for unknown api keys, 404 for missing or foreign entities and
500 for everything else.

Service Routes

  GET  /version        the version of the build
  GET  /health         200 if the database is reachable
  GET  /metrics        prometheus metrics
  POST /public/info    the name and version of the service

Notifications

If the backend has an events.Publisher, every created row is recorded in an
outbox table in the same transaction, and relayed to the publisher after the
commit. See RunNotifications.
*/
package backend
