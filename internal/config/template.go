package config

import "fmt"

// Template returns the commented project config written by "attn init".
// Values are the defaults, so writing it does not change behavior.
func Template() string {
	return fmt.Sprintf(`{
  // Store file, one record per line: "<student> <date> <0|1>".
  // Relative paths resolve against the working directory.
  "store_path": %q,

  // Students strictly below this percentage are defaulters.
  "threshold": %v,

  // debug | info | warn | error
  "log_level": %q,
}
`, DefaultStorePath, DefaultThreshold, DefaultLogLevel)
}
