package config

import (
	"fmt"
	"strings"

	"github.com/pg-sharding/shardproxy/pkg/models/hashfunction"
	"golang.org/x/xerrors"
)

const (
	LoadBalanceRoundRobin = "round_robin"
	LoadBalanceRandom     = "random"
)

type MasterSlaveRule struct {
	Name        string   `json:"name" toml:"name" yaml:"name"`
	Master      string   `json:"master" toml:"master" yaml:"master"`
	Slaves      []string `json:"slaves" toml:"slaves" yaml:"slaves"`
	LoadBalance string   `json:"load_balance" toml:"load_balance" yaml:"load_balance"`
}

func (r *MasterSlaveRule) validate(ds map[string]*DataSource) error {
	if _, ok := ds[r.Master]; !ok {
		return xerrors.Errorf("unknown master data source %q", r.Master)
	}
	for _, s := range r.Slaves {
		if _, ok := ds[s]; !ok {
			return xerrors.Errorf("unknown slave data source %q", s)
		}
	}
	switch r.LoadBalance {
	case "", LoadBalanceRoundRobin, LoadBalanceRandom:
		return nil
	}
	return xerrors.Errorf("unknown load balance algorithm %q", r.LoadBalance)
}

type ShardingRule struct {
	DefaultDataSource string       `json:"default_data_source" toml:"default_data_source" yaml:"default_data_source"`
	Tables            []*TableRule `json:"tables" toml:"tables" yaml:"tables"`
}

type TableRule struct {
	LogicTable      string   `json:"logic_table" toml:"logic_table" yaml:"logic_table"`
	ActualDataNodes []string `json:"actual_data_nodes" toml:"actual_data_nodes" yaml:"actual_data_nodes"`
	ShardingColumn  string   `json:"sharding_column" toml:"sharding_column" yaml:"sharding_column"`
	HashFunction    string   `json:"hash_function" toml:"hash_function" yaml:"hash_function"`
}

// DataNode is one physical table on one data source.
type DataNode struct {
	DataSource string
	Table      string
}

func (n DataNode) String() string {
	return n.DataSource + "." + n.Table
}

// ParseDataNode parses the "<data source>.<table>" notation.
func ParseDataNode(s string) (DataNode, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return DataNode{}, fmt.Errorf("invalid data node %q, expected <data source>.<table>", s)
	}
	return DataNode{DataSource: parts[0], Table: parts[1]}, nil
}

func (t *TableRule) DataNodes() ([]DataNode, error) {
	ret := make([]DataNode, 0, len(t.ActualDataNodes))
	for _, s := range t.ActualDataNodes {
		n, err := ParseDataNode(s)
		if err != nil {
			return nil, err
		}
		ret = append(ret, n)
	}
	return ret, nil
}

func (t *TableRule) HashFunctionType() hashfunction.HashFunctionType {
	hf, err := hashfunction.HashFunctionByName(t.HashFunction)
	if err != nil {
		return hashfunction.HashFunctionIdent
	}
	return hf
}

// FindTableRule looks a rule up by logic table name, case-insensitively.
func (r *ShardingRule) FindTableRule(logicTable string) (*TableRule, bool) {
	if r == nil {
		return nil, false
	}
	for _, t := range r.Tables {
		if strings.EqualFold(t.LogicTable, logicTable) {
			return t, true
		}
	}
	return nil, false
}

// FindTableRuleByActualTable returns the rule owning a physical table.
func (r *ShardingRule) FindTableRuleByActualTable(actualTable string) (*TableRule, bool) {
	if r == nil {
		return nil, false
	}
	for _, t := range r.Tables {
		nodes, err := t.DataNodes()
		if err != nil {
			continue
		}
		for _, n := range nodes {
			if strings.EqualFold(n.Table, actualTable) {
				return t, true
			}
		}
	}
	return nil, false
}

// DataSourceNames lists every data source the rule can route to, in
// first-seen order.
func (r *ShardingRule) DataSourceNames() []string {
	seen := map[string]struct{}{}
	var ret []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		ret = append(ret, name)
	}
	add(r.DefaultDataSource)
	for _, t := range r.Tables {
		nodes, _ := t.DataNodes()
		for _, n := range nodes {
			add(n.DataSource)
		}
	}
	return ret
}

func (r *ShardingRule) validate(ds map[string]*DataSource) error {
	if r.DefaultDataSource != "" {
		if _, ok := ds[r.DefaultDataSource]; !ok {
			return xerrors.Errorf("unknown default data source %q", r.DefaultDataSource)
		}
	}
	for _, t := range r.Tables {
		if t.LogicTable == "" {
			return xerrors.New("table rule without logic_table")
		}
		nodes, err := t.DataNodes()
		if err != nil {
			return err
		}
		if len(nodes) == 0 {
			return xerrors.Errorf("table %q has no actual data nodes", t.LogicTable)
		}
		for _, n := range nodes {
			if _, ok := ds[n.DataSource]; !ok {
				return xerrors.Errorf("table %q references unknown data source %q", t.LogicTable, n.DataSource)
			}
		}
		if _, err := hashfunction.HashFunctionByName(t.HashFunction); err != nil {
			return err
		}
	}
	return nil
}
