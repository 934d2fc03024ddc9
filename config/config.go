// server/config/config.go
package config

import (
	"github.com/spf13/viper"
)

// --- Các struct con, phản ánh cấu trúc của YAML ---

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapidPublicKey"`
	VAPIDPrivateKey string `mapstructure:"vapidPrivateKey"`
	Subject         string `mapstructure:"subject"` // mailto: liên hệ của trạm y tế
}

type StationConfig struct {
	// AllowedEmailDomain: chỉ email thuộc domain này được đăng nhập.
	AllowedEmailDomain string `mapstructure:"allowedEmailDomain"`
	AdminEmail         string `mapstructure:"adminEmail"`
	AdminPassword      string `mapstructure:"adminPassword"`
}

// --- Struct Config chính, bao gồm tất cả các struct con ---

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Push    PushConfig    `mapstructure:"push"`
	Station StationConfig `mapstructure:"station"`
}

// LoadConfig đọc cấu hình từ file và ghi đè bằng các biến môi trường.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	// Ánh xạ key YAML sang biến môi trường, ví dụ "mongo.uri" -> MONGO_URI.
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("push.vapidPublicKey", "VAPID_PUBLIC_KEY")
	viper.BindEnv("push.vapidPrivateKey", "VAPID_PRIVATE_KEY")
	viper.BindEnv("push.subject", "VAPID_SUBJECT")
	viper.BindEnv("station.allowedEmailDomain", "STATION_EMAIL_DOMAIN")
	viper.BindEnv("station.adminEmail", "STATION_ADMIN_EMAIL")
	viper.BindEnv("station.adminPassword", "STATION_ADMIN_PASSWORD")

	// Giá trị mặc định khi cả file lẫn env đều không có.
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("mongo.dbName", "pnt_health_station")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("station.allowedEmailDomain", "pnt.edu.vn")

	// Đọc file config.yaml. Nếu file không tồn tại, Viper sẽ chỉ sử dụng
	// các biến môi trường và giá trị mặc định.
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
