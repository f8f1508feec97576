package core

import "strings"

// 预定义的环境名称
const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

// Environment 运行环境，名称来自 UseEnvironment 或配置项 environment
type Environment interface {
	Name() string
	IsDevelopment() bool
	IsProduction() bool
	IsStaging() bool
}

type environment string

// NewEnvironment 创建环境，名称不区分大小写
func NewEnvironment(name string) Environment {
	return environment(strings.ToLower(strings.TrimSpace(name)))
}

func (e environment) Name() string        { return string(e) }
func (e environment) IsDevelopment() bool { return e == Development }
func (e environment) IsProduction() bool  { return e == Production }
func (e environment) IsStaging() bool     { return e == Staging }
