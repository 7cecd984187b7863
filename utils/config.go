package utils

import "apexbooking/config"

// IsProductionEnv reports whether the app runs with ENV=production.
func IsProductionEnv() bool {
	return config.IsProduction()
}
