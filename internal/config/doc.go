// Package config handles configuration loading for cortex-api.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion, then validated once at startup. The parsed Config is injected
// into every component that needs it; nothing reads configuration from
// ambient process state after startup.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${CORTEX_JWT_SECRET}"
//
// # Configuration Sections
//
// Server and database:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	database:
//	  path: "/var/lib/cortex/cortex.db"
//
// Authentication:
//
//	auth:
//	  jwt_secret: "${CORTEX_JWT_SECRET}"       # >= 32 characters
//	  encryption_key: "${CORTEX_ENC_KEY}"      # base64 AES key
//	  token_algorithm: "HS256"                 # HS256, HS384, HS512
//	  token_ttl_minutes: 60
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
