package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/jedib0t/go-pretty/v6/table"
)

/**
 *	把结构体按字段声明顺序转为有序map，字段名取json标签
 */
func StructToOrderedMap(v interface{}) (*orderedmap.OrderedMap, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := orderedmap.New()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

/**
 *	把记录列表渲染为表格，表头取第一条记录的键
 */
func FormatTable(dataList []*orderedmap.OrderedMap) string {
	if len(dataList) == 0 {
		return ""
	}
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	keys := dataList[0].Keys()
	header := make(table.Row, 0, len(keys))
	for _, k := range keys {
		header = append(header, strings.ToUpper(k))
	}
	t.AppendHeader(header)

	for _, record := range dataList {
		row := make(table.Row, 0, len(keys))
		for _, k := range keys {
			v, ok := record.Get(k)
			if !ok || v == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprint(v))
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// PrintFormat 以表格形式输出记录列表
func PrintFormat(dataList []*orderedmap.OrderedMap) {
	if out := FormatTable(dataList); out != "" {
		fmt.Fprintln(os.Stdout, out)
	}
}
