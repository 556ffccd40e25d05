package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Scoring weights. The three-signal combination is the canonical model;
	// the tuple is tunable but must sum to 1.0.
	v.SetDefault("engine.weights.lexical", 0.4)
	v.SetDefault("engine.weights.similarity", 0.4)
	v.SetDefault("engine.weights.compatibility", 0.2)

	// Must-have gaps are disqualifying signals, so they weigh more.
	v.SetDefault("engine.lexical.mustHave", 0.7)
	v.SetDefault("engine.lexical.goodToHave", 0.3)

	// Backend selection
	v.SetDefault("backend.similarity", SimilarityBackendLexical)
	v.SetDefault("backend.feedback", FeedbackBackendNone)

	// Gemini backend
	v.SetDefault("backend.gemini.model", "gemini-2.0-flash")
	v.SetDefault("backend.gemini.embedModel", "text-embedding-004")
	v.SetDefault("backend.gemini.apiKey", "")
	v.SetDefault("backend.gemini.timeout", 30*time.Second)
	v.SetDefault("backend.gemini.maxRetries", 2)
	v.SetDefault("backend.gemini.temperature", 0.3)

	// Circuit breaker for backend calls
	v.SetDefault("backend.gemini.circuitBreaker.enabled", true)
	v.SetDefault("backend.gemini.circuitBreaker.maxRequests", 3)
	v.SetDefault("backend.gemini.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("backend.gemini.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("backend.gemini.circuitBreaker.minRequests", 3)
	v.SetDefault("backend.gemini.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 1024*1024) // 1MB
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 1024*1024) // 1MB

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumatch")
	v.SetDefault("observability.serviceVersion", "") // Will use app version if empty
	v.SetDefault("observability.consoleOutput", false)

	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
}
