package core

// Config holds the configuration for the scan
type Config struct {
	InputFile      string
	Keywords       []string
	Threads        int
	Timeout        int // seconds
	NoiseThreshold int
	MaxRedirects   int
	UserAgent      string
}

// DefaultConfig returns the compiled-in scan settings.
func DefaultConfig() *Config {
	return &Config{
		InputFile:      "target.txt",
		Keywords:       DefaultKeywords(),
		Threads:        10,
		Timeout:        5,
		NoiseThreshold: 5,
		MaxRedirects:   30,
		UserAgent:      "Mozilla/5.0 (compatible; sensiscan/1.0)",
	}
}

var defaultKeywords = []string{
	"phpinfo.php", ".env", "config.php", "config.json", "database.sql",
	"dump.sql", "backup.zip", "backup.sql", "database.sql.gz", "database.sql.zip",
	".sql", ".log", ".bak", ".old", "id_rsa", "id_rsa.pub", "authorized_keys",
	".htpasswd", "docker-compose.yml", "dockerfile", "credentials.json", "secret",
	"secrets.yaml", ".key", ".pem", ".crt", ".pfx", ".p12", ".git/config",
	".git-credentials", ".svn/entries", "config.ini", "settings.py",
	"local.settings.json", ".DS_Store", ".vscode/sftp.json", ".apikey.json",
}

// DefaultKeywords returns a copy of the built-in sensitive path list.
func DefaultKeywords() []string {
	out := make([]string, len(defaultKeywords))
	copy(out, defaultKeywords)
	return out
}

// Result represents a positive probe
type Result struct {
	URL      string `json:"url"`
	Host     string `json:"host"`
	Status   int    `json:"status"`
	FinalURL string `json:"final_url,omitempty"`
}
