package config

import "time"

const defaultPort = 8080

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "dispatch_db",
}

var defaultRedis = Redis{
	Addr: "localhost:6379",
}

var defaultRouting = Routing{
	Mode:        "driving",
	Timeout:     2 * time.Second,
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	MaxDelay:    400 * time.Millisecond,
}

var defaultMatching = Matching{
	DefaultRadiusKm: 10,
	Concurrency:     8,
}

var defaultSchedule = Schedule{
	Timezone: "UTC",
	Locale:   "en",
}

var defaultLocation = Location{
	LiveTTL: 2 * time.Minute,
}

var defaultDelivery = Delivery{
	OperationTimeout: 3 * time.Second,
}

var defaultKafka = Kafka{
	GroupID:     "service-dispatch",
	OrdersTopic: "orders.events",
	StatusTopic: "delivery.status",
}

var defaultEarnings = Earnings{
	Exchange:      "earnings",
	RoutingKey:    "delivery.delivered",
	RelaySchedule: "*/5 * * * * *",
	BatchSize:     50,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

var defaultAdmin = Admin{
	Addr: "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultRedis returns the default redis settings.
func DefaultRedis() Redis {
	return defaultRedis
}

// DefaultRouting returns the default routing provider settings.
func DefaultRouting() Routing {
	return defaultRouting
}

// DefaultMatching returns the default matcher settings.
func DefaultMatching() Matching {
	return defaultMatching
}

// DefaultSchedule returns the default schedule settings.
func DefaultSchedule() Schedule {
	return defaultSchedule
}

// DefaultLocation returns the default live location settings.
func DefaultLocation() Location {
	return defaultLocation
}

// DefaultDelivery returns the default delivery settings.
func DefaultDelivery() Delivery {
	return defaultDelivery
}

// DefaultKafka returns the default kafka settings.
func DefaultKafka() Kafka {
	return defaultKafka
}

// DefaultEarnings returns the default earnings relay settings.
func DefaultEarnings() Earnings {
	return defaultEarnings
}

// DefaultRateLimit returns the default rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultAdmin returns the default diagnostics listener settings.
func DefaultAdmin() Admin {
	return defaultAdmin
}
