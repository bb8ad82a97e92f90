package parser_test

import "testing"

// CALL of a file or a label.
func TestCall(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "call file",
			input: `
call %BIN_PATH%\MyProcess2.cmd
`,
			want: `
program
  command_call_file
    call
    %BIN_PATH%\MyProcess2.cmd`,
		},
		{
			name: "call file with args",
			input: `
call %BIN_PATH%\MyProcess2.cmd %_MyVariable% 1234
`,
			want: `
program
  command_call_file
    call
    %BIN_PATH%\MyProcess2.cmd
    %_MyVariable% 1234`,
		},
		{
			name: "call label",
			input: `
CALL :SUBROUTINE
`,
			want: `
program
  command_call_label
    CALL
    label
      :
      SUBROUTINE`,
		},
		{
			name: "call label with args",
			input: `
CALL :SUBROUTINE %%i %%j %%k %%l %%m %%n
`,
			want: `
program
  command_call_label
    CALL
    label
      :
      SUBROUTINE
    %%i %%j %%k %%l %%m %%n`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTree(t, tt.input, tt.want)
		})
	}
}
