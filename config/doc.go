/*
Package config loads recordstore configuration.

Values are layered, later layers winning:

 1. built-in defaults (Default)
 2. an optional YAML file
 3. an optional dotenv file, which never overrides variables already set
 4. the process environment

Example YAML:

	backend: file
	file_path: data/file.json
	log_level: debug
	dynamodb:
	  region: us-east-1
	  table: records

Environment variables: RECORDSTORE_FILE, RECORDSTORE_BACKEND,
RECORDSTORE_LOG_LEVEL, RECORDSTORE_LOG_FORMAT, AWS_REGION, AWS_ACCESS_KEY,
AWS_SECRET_KEY, AWS_DDB_TABLE, AWS_DDB_ENDPOINT.
*/
package config
