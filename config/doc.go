// Package config loads application settings for the topicrank commands.
//
// Settings come from three layers, later layers winning:
//
//  1. built-in defaults (Default)
//  2. a YAML file
//  3. environment variables, including those from a .env file in the working directory
//
// Command line flags are applied by the caller on top of the loaded Config.
//
// # Environment
//
//	TOPICRANK_LOG_LEVEL        log level (debug, info, warn, error)
//	TOPICRANK_KB_BACKEND       knowledge base backend (badger, neo4j)
//	TOPICRANK_KB_PATH          badger directory
//	TOPICRANK_TAGGER_HOST      OpenAI-compatible tagging endpoint
//	TOPICRANK_TAGGER_MODEL     tagging model
//	TOPICRANK_TAGGER_API_KEY   tagging API key
//	TOPICRANK_SERVER_ADDR      HTTP listen address
//	NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD, NEO4J_DATABASE
//	REDIS_ADDR                 enables the knowledge base cache when set
package config
