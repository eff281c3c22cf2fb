package cmd

// Config carries every tunable the application reads at startup. Values come
// from the environment; see cmd/app for the loading code.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	KafkaHost         string
	KafkaPushTopic    string
	KafkaBotTopic     string
	AdminChatID       string
	BroadcastSchedule string

	DeliveryBaseFee       int64
	DeliveryPerKmFee      int64
	ServiceFeePercent     int
	CourierSearchRadiusKm float64
	CourierAvgSpeedKmh    float64
}
