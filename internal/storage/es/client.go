package es

import (
	"os"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

const defaultIndexName = "documents"

type ClientConfig struct {
	Addresses []string
	IndexName string
	Username  string
	Password  string
}

func LoadConfigFromEnv() ClientConfig {
	addresses := os.Getenv("ELASTICSEARCH_ADDRESSES")
	if addresses == "" {
		addresses = "http://localhost:9200"
	}

	indexName := os.Getenv("ELASTICSEARCH_INDEX")
	if indexName == "" {
		indexName = defaultIndexName
	}

	return ClientConfig{
		Addresses: strings.Split(addresses, ","),
		IndexName: indexName,
		Username:  os.Getenv("ELASTICSEARCH_USERNAME"),
		Password:  os.Getenv("ELASTICSEARCH_PASSWORD"),
	}
}

func newClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}
