package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedSource is returned by Fetch for addresses it cannot serve.
var ErrUnsupportedSource = errors.New("unsupported template source: use a URL containing 'demo' or 'example'")

var demoTemplates = []Template{
	{
		ID:          "demo-api-design",
		Name:        "API 设计规范",
		Description: "RESTful API 设计规范模板",
		Content:     "# API 设计规范\n\n## 设计原则\n1. 使用名词复数形式表示资源\n2. 使用 HTTP 方法表示操作类型\n3. 使用状态码表示请求结果",
	},
	{
		ID:          "demo-db-design",
		Name:        "数据库设计规范",
		Description: "数据库表结构设计模板",
		Content:     "# 数据库设计规范\n\n## 命名规范\n- 表名：小写下划线，复数形式\n- 字段名：小写下划线\n- 索引名：idx_表名_字段名",
	},
	{
		ID:          "demo-prd-template",
		Name:        "PRD 文档模板",
		Description: "产品需求文档标准模板",
		Content:     "# PRD 文档\n\n## 1. 背景\n描述项目背景和目标\n\n## 2. 需求描述\n详细描述功能需求\n\n## 3. 验收标准\n- [ ] 标准1\n- [ ] 标准2",
	},
}

// Fetch returns the templates published at url. Only demonstration sources
// (URLs containing "demo" or "example") are recognised; no request is made.
func Fetch(ctx context.Context, url string) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !strings.Contains(url, "demo") && !strings.Contains(url, "example") {
		return nil, fmt.Errorf("%w (got %q)", ErrUnsupportedSource, url)
	}
	out := make([]Template, len(demoTemplates))
	copy(out, demoTemplates)
	return out, nil
}
