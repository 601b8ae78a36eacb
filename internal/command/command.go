// Package command turns a block's ranges into ordered start/stop events.
package command

import (
	"fmt"
	"sort"

	"github.com/riverfjs/draftexport/internal/types"
	"github.com/riverfjs/draftexport/internal/util"
)

// Name 是命令名称
type Name string

const (
	StartText        Name = "start_text"
	StopText         Name = "stop_text"
	StartInlineStyle Name = "start_inline_style"
	StopInlineStyle  Name = "stop_inline_style"
	StartEntity      Name = "start_entity"
	StopEntity       Name = "stop_entity"
)

// Command is a point event at a unit offset of the block text.
type Command struct {
	Name  Name
	Index int
	Data  string
}

func (c Command) String() string {
	return fmt.Sprintf("%s@%d(%s)", c.Name, c.Index, c.Data)
}

// Group pairs the commands sharing an index with the text they open.
type Group struct {
	Text     string
	Commands []Command
}

// Build 生成 block 的命令序列
//
// 顺序：text 命令、样式命令、实体命令，然后按 index 稳定排序。
// 相同 index 上，样式命令先于实体命令，同类中按 range 顺序保持 start/stop 的先后。
// range 的两端被截断到 [0, len(text)]。
func Build(block *types.Block, unit util.Unit) []Command {
	table := util.NewOffsetTable(block.Text, unit)
	length := table.Len()
	cmds := make([]Command, 0, 2+2*len(block.InlineStyleRanges)+2*len(block.EntityRanges))
	cmds = append(cmds, startStop(StartText, StopText, 0, length, "")...)
	for _, r := range block.InlineStyleRanges {
		cmds = append(cmds, startStop(StartInlineStyle, StopInlineStyle, table.Clamp(r.Offset), table.Clamp(r.Offset+r.Length), r.Style)...)
	}
	for _, r := range block.EntityRanges {
		cmds = append(cmds, startStop(StartEntity, StopEntity, table.Clamp(r.Offset), table.Clamp(r.Offset+r.Length), string(r.Key))...)
	}
	sort.SliceStable(cmds, func(i, j int) bool { return cmds[i].Index < cmds[j].Index })
	return cmds
}

// Groups clusters the sorted commands by index and slices the text between
// consecutive indices. The last group always carries an empty string.
func Groups(block *types.Block, unit util.Unit) []Group {
	return GroupCommands(block.Text, Build(block, unit), unit)
}

// GroupCommands groups already sorted commands against text.
func GroupCommands(text string, cmds []Command, unit util.Unit) []Group {
	if len(cmds) == 0 {
		return nil
	}
	table := util.NewOffsetTable(text, unit)

	var groups []Group
	var indices []int
	for _, c := range cmds {
		if len(groups) > 0 && indices[len(indices)-1] == c.Index {
			last := &groups[len(groups)-1]
			last.Commands = append(last.Commands, c)
			continue
		}
		groups = append(groups, Group{Commands: []Command{c}})
		indices = append(indices, c.Index)
	}
	for i := range groups {
		if i < len(groups)-1 {
			groups[i].Text = table.Slice(indices[i], indices[i+1])
		}
	}
	return groups
}

func startStop(start, stop Name, from, to int, data string) []Command {
	return []Command{
		{Name: start, Index: from, Data: data},
		{Name: stop, Index: to, Data: data},
	}
}
