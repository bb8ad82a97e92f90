package ast

// Tag names a node variant. The string value is the interchange name rendered
// by the tree formatter.
type Tag string

const (
	TagProgram           Tag = "program"
	TagEmptyline         Tag = "emptyline"
	TagLabel             Tag = "label"
	TagCommandEcho       Tag = "command_echo"
	TagCommandRem        Tag = "command_rem"
	TagCommandSet        Tag = "command_set"
	TagCommandSetExpr    Tag = "command_set_expr"
	TagCommandSetDisp    Tag = "command_set_disp"
	TagCommandExe        Tag = "command_exe"
	TagCommandCallFile   Tag = "command_call_file"
	TagCommandCallLabel  Tag = "command_call_label"
	TagCommandGoto       Tag = "command_goto"
	TagStatementIf       Tag = "statement_if"
	TagStatementElse     Tag = "statement_else"
	TagTestComp          Tag = "test_comp"
	TagTestNotComp       Tag = "test_not_comp"
	TagTestExist         Tag = "test_exist"
	TagTestNotExist      Tag = "test_not_exist"
	TagTestDefined       Tag = "test_defined"
	TagTestNotDefined    Tag = "test_not_defined"
	TagTestErrorlevel    Tag = "test_errorlevel"
	TagTestNotErrorlevel Tag = "test_not_errorlevel"
	TagStatementForF     Tag = "statement_for_f"
	TagForParameter      Tag = "for_parameter"
	TagForRangeFilename  Tag = "for_range_filename"
	TagForRangeCommand   Tag = "for_range_command"
	TagForRangeText      Tag = "for_range_text"
	TagGroup             Tag = "group"
	TagSubprogram        Tag = "subprogram"
	TagCommandOneline    Tag = "command_oneline"
	TagSubcommandOneline Tag = "subcommand_oneline"
	TagRedirectStdout    Tag = "redirect_stdout"
	TagRedirectStderr    Tag = "redirect_stderr"
	TagPipeline          Tag = "pipeline"
	TagCommandLine       Tag = "command_line"
)

var vocabulary = []Tag{
	TagProgram, TagEmptyline, TagLabel,
	TagCommandEcho, TagCommandRem, TagCommandSet, TagCommandSetExpr, TagCommandSetDisp,
	TagCommandExe, TagCommandCallFile, TagCommandCallLabel, TagCommandGoto,
	TagStatementIf, TagStatementElse,
	TagTestComp, TagTestNotComp, TagTestExist, TagTestNotExist,
	TagTestDefined, TagTestNotDefined, TagTestErrorlevel, TagTestNotErrorlevel,
	TagStatementForF, TagForParameter, TagForRangeFilename, TagForRangeCommand, TagForRangeText,
	TagGroup, TagSubprogram, TagCommandOneline, TagSubcommandOneline,
	TagRedirectStdout, TagRedirectStderr, TagPipeline, TagCommandLine,
}

var validTags = func() map[Tag]struct{} {
	m := make(map[Tag]struct{}, len(vocabulary))
	for _, t := range vocabulary {
		m[t] = struct{}{}
	}
	return m
}()

// Tags returns the complete tag vocabulary in a fixed order.
func Tags() []Tag {
	out := make([]Tag, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Valid reports whether t belongs to the vocabulary.
func (t Tag) Valid() bool {
	_, ok := validTags[t]
	return ok
}

func (t Tag) String() string {
	return string(t)
}

// IsTest reports whether t is one of the IF test variants.
func (t Tag) IsTest() bool {
	switch t {
	case TagTestComp, TagTestNotComp, TagTestExist, TagTestNotExist,
		TagTestDefined, TagTestNotDefined, TagTestErrorlevel, TagTestNotErrorlevel:
		return true
	}
	return false
}
