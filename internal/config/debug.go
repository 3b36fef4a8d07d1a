package config

import "os"

func IsDebug() bool {
	return os.Getenv("YUKI_DEBUG") == "1"
}
