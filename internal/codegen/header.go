package codegen

import (
	"fmt"
	"strings"
)

// FirstCopyrightYear opens the copyright range of every generated file.
const FirstCopyrightYear = 2010

const doNotEdit = "/* THIS FILE IS AUTOMATICALLY GENERATED, DO NOT EDIT ! */\n"

// Copyright returns the copyright range ending at year, e.g. "2010-2026".
func Copyright(year int) string {
	return fmt.Sprintf("%d-%d", FirstCopyrightYear, year)
}

// Header builds the provenance banner placed before the rendered template.
// command is the literal invocation and is written unescaped.
func Header(year int, command, templatePath string) []byte {
	var b strings.Builder
	b.WriteString("/******************************************************************************\n")
	b.WriteString(" * This file is part of the cvc5 project.\n")
	b.WriteString(" *\n")
	fmt.Fprintf(&b, " * Copyright (c) %s by the authors listed in the file AUTHORS\n", Copyright(year))
	b.WriteString(" * in the top-level source directory and their institutional affiliations.\n")
	b.WriteString(" * All rights reserved.  See the file COPYING in the top-level source\n")
	b.WriteString(" * directory for licensing information.\n")
	b.WriteString(" * ****************************************************************************\n")
	b.WriteString(" *\n")
	b.WriteString(" * This file was automatically generated by:\n")
	b.WriteString(" *\n")
	fmt.Fprintf(&b, " *     %s\n", command)
	b.WriteString(" *\n")
	b.WriteString(" * for the cvc5 project.\n")
	b.WriteString(" */\n")
	b.WriteString(" \n")
	b.WriteString(strings.Repeat(doNotEdit, 6))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(doNotEdit, 6))
	b.WriteString("\n")
	b.WriteString("/* Edit the template file instead:                     */\n")
	fmt.Fprintf(&b, "/* %s */\n\n", templatePath)
	return []byte(b.String())
}
