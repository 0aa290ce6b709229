package config

import firebase "firebase.google.com/go/v4"

// FirebaseConfig builds the app config for the Admin SDK from AppConfig.
// Empty fields fall back to the values in the service account file.
func FirebaseConfig() *firebase.Config {
	return &firebase.Config{
		DatabaseURL: AppConfig.FirebaseDatabaseURL,
		ProjectID:   AppConfig.FirebaseProjectID,
	}
}
