/*
Package postgres manages the database connection.
As part of connecting, all migrations are run on the database.
When the database is a target for tests, the public schema is dropped first.
*/
package postgres
