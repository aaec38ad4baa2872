package config

import (
	"encoding/json"
	"log"
	"os"

	"github.com/pg-sharding/shardproxy/pkg/txstatus"
	"golang.org/x/xerrors"
)

var cfgProxy Proxy

type Proxy struct {
	LogLevel      string `json:"log_level" toml:"log_level" yaml:"log_level"`
	LogFileName   string `json:"log_filename" toml:"log_filename" yaml:"log_filename"`
	PrettyLogging bool   `json:"pretty_logging" toml:"pretty_logging" yaml:"pretty_logging"`

	TransactionType string `json:"transaction_type" toml:"transaction_type" yaml:"transaction_type"`

	DataSources     map[string]*DataSource `json:"data_sources" toml:"data_sources" yaml:"data_sources"`
	ShardingRule    ShardingRule           `json:"sharding_rule" toml:"sharding_rule" yaml:"sharding_rule"`
	MasterSlaveRule *MasterSlaveRule       `json:"master_slave_rule" toml:"master_slave_rule" yaml:"master_slave_rule"`

	ExecuterCfg  ExecuterCfg `json:"executer" toml:"executer" yaml:"executer"`
	MetadataCfg  MetadataCfg `json:"metadata" toml:"metadata" yaml:"metadata"`
	JaegerConfig JaegerCfg   `json:"jaeger" toml:"jaeger" yaml:"jaeger"`

	TimeQuantiles []float64 `json:"time_quantiles" toml:"time_quantiles" yaml:"time_quantiles"`
}

type DataSource struct {
	Driver          string `json:"driver" toml:"driver" yaml:"driver"`
	DSN             string `json:"dsn" toml:"dsn" yaml:"dsn"`
	MaxOpenConns    int    `json:"max_open_conns" toml:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int    `json:"max_idle_conns" toml:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime string `json:"conn_max_lifetime" toml:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

type ExecuterCfg struct {
	// 0 means every unit of a query runs at once.
	MaxParallelUnits int `json:"max_parallel_units" toml:"max_parallel_units" yaml:"max_parallel_units"`
}

type MetadataCfg struct {
	RefreshRetries   uint64   `json:"refresh_retries" toml:"refresh_retries" yaml:"refresh_retries"`
	RefreshQueueSize int      `json:"refresh_queue_size" toml:"refresh_queue_size" yaml:"refresh_queue_size"`
	EtcdEndpoints    []string `json:"etcd_endpoints" toml:"etcd_endpoints" yaml:"etcd_endpoints"`
	EtcdPrefix       string   `json:"etcd_prefix" toml:"etcd_prefix" yaml:"etcd_prefix"`
}

type JaegerCfg struct {
	JaegerUrl   string `json:"jaeger_url" toml:"jaeger_url" yaml:"jaeger_url"`
	ServiceName string `json:"service_name" toml:"service_name" yaml:"service_name"`
}

// MasterSlaveOnly reports whether the proxy routes by replica rule only.
// The answer is fixed for the lifetime of a loaded configuration.
func (p *Proxy) MasterSlaveOnly() bool {
	return p.MasterSlaveRule != nil && len(p.ShardingRule.Tables) == 0
}

// TxType returns the parsed transaction type, LOCAL if the value is invalid.
func (p *Proxy) TxType() txstatus.TransactionType {
	tp, err := txstatus.TransactionTypeByName(p.TransactionType)
	if err != nil {
		return txstatus.LOCAL
	}
	return tp
}

func (p *Proxy) Validate() error {
	if _, err := txstatus.TransactionTypeByName(p.TransactionType); err != nil {
		return xerrors.Errorf("invalid config: %w", err)
	}
	if len(p.DataSources) == 0 {
		return xerrors.New("invalid config: no data sources configured")
	}
	for name, ds := range p.DataSources {
		if ds == nil || ds.Driver == "" || ds.DSN == "" {
			return xerrors.Errorf("invalid config: data source %q needs driver and dsn", name)
		}
	}
	if p.MasterSlaveRule == nil && len(p.ShardingRule.Tables) == 0 && p.ShardingRule.DefaultDataSource == "" {
		return xerrors.New("invalid config: neither sharding rule nor master-slave rule configured")
	}
	if p.MasterSlaveRule != nil {
		if err := p.MasterSlaveRule.validate(p.DataSources); err != nil {
			return xerrors.Errorf("invalid master-slave rule: %w", err)
		}
	}
	if err := p.ShardingRule.validate(p.DataSources); err != nil {
		return xerrors.Errorf("invalid sharding rule: %w", err)
	}
	return nil
}

// LoadProxyCfg loads the proxy configuration from the specified file path.
//
// Parameters:
//   - cfgPath (string): The path of the configuration file.
//
// Returns:
//   - string: JSON-formatted config
//   - error: An error if any occurred during the loading process.
func LoadProxyCfg(cfgPath string) (string, error) {
	var cfg Proxy
	file, err := os.Open(cfgPath)
	if err != nil {
		return "", err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			log.Printf("failed to close config file: %v", err)
		}
	}(file)

	if err := initConfig(file, &cfg); err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	cfgProxy = cfg

	configBytes, err := json.MarshalIndent(&cfgProxy, "", "  ")
	if err != nil {
		return "", err
	}

	return string(configBytes), nil
}

func ProxyConfig() *Proxy {
	return &cfgProxy
}
