package parser_test

import "testing"

// IF tests, ELSE chains and nested conditionals.
func TestIf(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name: "if eq doublequote",
			input: `
IF "A %MY_VARIABLE:~-1% A" == "A \ A" SET MY_VARIABLE=%MY_VARIABLE:~0,-1%
`,
			want: `
program
  statement_if
    IF
    test_comp
      "A %MY_VARIABLE:~-1% A"
      ==
      "A \ A"
    command_set
      SET
      MY_VARIABLE
      =
      %MY_VARIABLE:~0,-1%`,
		},
		{
			name: "if not eq doublequote",
			input: `
IF NOT "%ERRORLEVEL%" == "0" (
    goto END
)
`,
			want: `
program
  statement_if
    IF
    test_not_comp
      NOT
      "%ERRORLEVEL%"
      ==
      "0"
    group
      (
      subprogram
        command_goto
          goto
          END
      )`,
		},
		{
			name: "if left normal right quoted",
			input: `
IF NOT %FLAG% == "1" GOTO LABEL_END
`,
			want: `
program
  statement_if
    IF
    test_not_comp
      NOT
      %FLAG%
      ==
      "1"
    command_goto
      GOTO
      LABEL_END`,
		},
		{
			name: "if left quoted right normal",
			input: `
IF NOT "1" == %FLAG% GOTO LABEL_END
`,
			want: `
program
  statement_if
    IF
    test_not_comp
      NOT
      "1"
      ==
      %FLAG%
    command_goto
      GOTO
      LABEL_END`,
		},
		{
			name: "if compare value has colon",
			input: `
IF %1:%2=="SYSTEMID":1 SET LOGIN_USER=user123
`,
			want: `
program
  statement_if
    IF
    test_comp
      %1:%2
      ==
      "SYSTEMID":1
    command_set
      SET
      LOGIN_USER
      =
      user123`,
		},
		{
			name: "if compare value has space",
			input: `
IF %1:%2=="SYSTEMID SPACE":1 SET LOGIN_USER=user123
`,
			want: `
program
  statement_if
    IF
    test_comp
      %1:%2
      ==
      "SYSTEMID SPACE":1
    command_set
      SET
      LOGIN_USER
      =
      user123`,
		},
		{
			name: "if equ",
			input: `
IF %~5 EQU 1 echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      %~5
      EQU
      1
    command_echo
      echo
      OK`,
		},
		{
			name: "if lss",
			input: `
IF %~5 lss 1 echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      %~5
      lss
      1
    command_echo
      echo
      OK`,
		},
		{
			name: "if gtr with variable substring",
			input: `
echo %TMP1_TARGETDATE:~0,8% GTR %TMP3_TARGETDATE:~0,8% >> %OUTPUT_LOG% 2>&1

IF %TMP1_TARGETDATE:~0,8% GTR %MY_YY%%MY_MM%%MY_DD% (
    SET MY_VARIABLE=%TMP3_TARGETDATE:~0,8%
    echo テスト（%MY_VARIABLE%） >> %OUTPUT_LOG% 2>&1
    goto :RUN_DELETE
)
`,
			want: "program\n" +
				"  command_oneline\n" +
				"    command_echo\n" +
				"      echo\n" +
				"      %TMP1_TARGETDATE:~0,8% GTR %TMP3_TARGETDATE:~0,8% \n" +
				"    redirect_stdout\n" +
				"      >>\n" +
				"      %OUTPUT_LOG%\n" +
				"    redirect_stderr\n" +
				"      2>\n" +
				"      &1\n" +
				"  emptyline\t\n" +
				"  statement_if\n" +
				"    IF\n" +
				"    test_comp\n" +
				"      %TMP1_TARGETDATE:~0,8%\n" +
				"      GTR\n" +
				"      %MY_YY%%MY_MM%%MY_DD%\n" +
				"    group\n" +
				"      (\n" +
				"      subprogram\n" +
				"        command_set\n" +
				"          SET\n" +
				"          MY_VARIABLE\n" +
				"          =\n" +
				"          %TMP3_TARGETDATE:~0,8%\n" +
				"        subcommand_oneline\n" +
				"          command_echo\n" +
				"            echo\n" +
				"            テスト（%MY_VARIABLE%） \n" +
				"          redirect_stdout\n" +
				"            >>\n" +
				"            %OUTPUT_LOG%\n" +
				"          redirect_stderr\n" +
				"            2>\n" +
				"            &1\n" +
				"        command_goto\n" +
				"          goto\n" +
				"          :\n" +
				"          RUN_DELETE\n" +
				"      )",
		},
		{
			name: "if exist",
			input: `
IF EXIST c:\path\to\my.exe set flag=true
`,
			want: `
program
  statement_if
    IF
    test_exist
      EXIST
      c:\path\to\my.exe
    command_set
      set
      flag
      =
      true`,
		},
		{
			name: "if exist expand var",
			input: `
IF EXIST %~dp0..\bin\MYCOMMAND.exe (
    SET SAMPLE=%~dp0..\bin\MYCOMMAND.exe
    GOTO L_SAMPLE_END
)
`,
			want: `
program
  statement_if
    IF
    test_exist
      EXIST
      %~dp0..\bin\MYCOMMAND.exe
    group
      (
      subprogram
        command_set
          SET
          SAMPLE
          =
          %~dp0..\bin\MYCOMMAND.exe
        command_goto
          GOTO
          L_SAMPLE_END
      )`,
		},
		{
			name: "if not exist",
			input: `
if not exist "d:\path\to\Program Files\my.exe" set flag=true
`,
			want: `
program
  statement_if
    if
    test_not_exist
      not
      exist
      "d:\path\to\Program Files\my.exe"
    command_set
      set
      flag
      =
      true`,
		},
		{
			name: "if group",
			input: `
IF NOT "%ERRORLEVEL%" == "0" (
    GOTO L_ERR
)  
`,
			want: `
program
  statement_if
    IF
    test_not_comp
      NOT
      "%ERRORLEVEL%"
      ==
      "0"
    group
      (
      subprogram
        command_goto
          GOTO
          L_ERR
      )`,
		},
		{
			name: "if else multiple commands",
			input: `
IF "%MY_FLAG%" == "1" (
    REM * SAMPLE *
    SET DIR1=%MY_ROOT_DIR%\SAMPLE
    SET DIR2=%MY_ROOT_DIR%\Current
) else (
    REM noop
    SET FLAG=1
)
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "1"
    group
      (
      subprogram
        command_rem
          REM
          * SAMPLE *
        command_set
          SET
          DIR1
          =
          %MY_ROOT_DIR%\SAMPLE
        command_set
          SET
          DIR2
          =
          %MY_ROOT_DIR%\Current
      )
    statement_else
      else
      group
        (
        subprogram
          command_rem
            REM
            noop
          command_set
            SET
            FLAG
            =
            1
        )`,
		},
		{
			name: "if not else command with redirect",
			input: `
IF NOT ""%MY_FLAG%""=="""" (%MYDIR%\MYCALL %MYDIR%\MYCOMMAND ARG100 >> %OUTPUT_LOG% 2>&1
)ELSE (%MYDIR%\MYCALL %MYDIR%\MYCOMMAND ARG200 >> %OUTPUT_LOG% 2>&1)
`,
			want: `
program
  statement_if
    IF
    test_not_comp
      NOT
      ""%MY_FLAG%""
      ==
      """"
    group
      (
      subprogram
        subcommand_oneline
          command_exe
            %MYDIR%\MYCALL
            %MYDIR%\MYCOMMAND ARG100 
          redirect_stdout
            >>
            %OUTPUT_LOG%
          redirect_stderr
            2>
            &1
      )
    statement_else
      ELSE
      group
        (
        subprogram
          subcommand_oneline
            command_exe
              %MYDIR%\MYCALL
              %MYDIR%\MYCOMMAND ARG200 
            redirect_stdout
              >>
              %OUTPUT_LOG%
            redirect_stderr
              2>
              &1
        )`,
		},
		{
			name: "if else if else normal",
			input: `
IF "%MY_FLAG%" == "0" (
    GOTO LABEL_PROCESS1
) ELSE IF "%MY_FLAG%" == "1" (
    GOTO LABEL_PROCESS1
) ELSE (
    GOTO LABEL_PROCESS2
) 
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "0"
    group
      (
      subprogram
        command_goto
          GOTO
          LABEL_PROCESS1
      )
    statement_else
      ELSE
      statement_if
        IF
        test_comp
          "%MY_FLAG%"
          ==
          "1"
        group
          (
          subprogram
            command_goto
              GOTO
              LABEL_PROCESS1
          )
        statement_else
          ELSE
          group
            (
            subprogram
              command_goto
                GOTO
                LABEL_PROCESS2
            )`,
		},
		{
			name: "if else if else slim threelines goto",
			input: `
IF "%MY_FLAG%" == "0" (GOTO LABEL_PROCESS1
) ELSE IF "%MY_FLAG%" == "1" (GOTO LABEL_PROCESS1
) ELSE (GOTO LABEL_PROCESS2)
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "0"
    group
      (
      subprogram
        command_goto
          GOTO
          LABEL_PROCESS1
      )
    statement_else
      ELSE
      statement_if
        IF
        test_comp
          "%MY_FLAG%"
          ==
          "1"
        group
          (
          subprogram
            command_goto
              GOTO
              LABEL_PROCESS1
          )
        statement_else
          ELSE
          group
            (
            subprogram
              command_goto
                GOTO
                LABEL_PROCESS2
            )`,
		},
		{
			name: "if else if else slim threelines command exe",
			input: `
IF "%MY_FLAG%" == "0" (MYCALL LABEL_PROCESS1
) ELSE IF "%MY_FLAG%" == "1" (MYCALL LABEL_PROCESS1
) ELSE (MYCALL LABEL_PROCESS2)
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "0"
    group
      (
      subprogram
        command_exe
          MYCALL
          LABEL_PROCESS1
      )
    statement_else
      ELSE
      statement_if
        IF
        test_comp
          "%MY_FLAG%"
          ==
          "1"
        group
          (
          subprogram
            command_exe
              MYCALL
              LABEL_PROCESS1
          )
        statement_else
          ELSE
          group
            (
            subprogram
              command_exe
                MYCALL
                LABEL_PROCESS2
            )`,
		},
		{
			name: "if else if else slim threelines command exe redirect",
			input: `
IF "%MY_FLAG%" == "0" (MYCALL LABEL_PROCESS1 >> %OUTPUT_LOG% 2>&1
) ELSE IF "%MY_FLAG%" == "1" (MYCALL LABEL_PROCESS1 >> %OUTPUT_LOG% 2>&1
) ELSE (MYCALL LABEL_PROCESS2 >> %OUTPUT_LOG% 2>&1)
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "0"
    group
      (
      subprogram
        subcommand_oneline
          command_exe
            MYCALL
            LABEL_PROCESS1 
          redirect_stdout
            >>
            %OUTPUT_LOG%
          redirect_stderr
            2>
            &1
      )
    statement_else
      ELSE
      statement_if
        IF
        test_comp
          "%MY_FLAG%"
          ==
          "1"
        group
          (
          subprogram
            subcommand_oneline
              command_exe
                MYCALL
                LABEL_PROCESS1 
              redirect_stdout
                >>
                %OUTPUT_LOG%
              redirect_stderr
                2>
                &1
          )
        statement_else
          ELSE
          group
            (
            subprogram
              subcommand_oneline
                command_exe
                  MYCALL
                  LABEL_PROCESS2 
                redirect_stdout
                  >>
                  %OUTPUT_LOG%
                redirect_stderr
                  2>
                  &1
            )`,
		},
		{
			name: "if else if else slim oneline",
			input: `
IF "%MY_FLAG%" == "0" (GOTO LABEL_PROCESS1) ELSE IF "%MY_FLAG%" == "1" (GOTO LABEL_PROCESS1) ELSE (GOTO LABEL_PROCESS2) 
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "0"
    group
      (
      subprogram
        command_goto
          GOTO
          LABEL_PROCESS1
      )
    statement_else
      ELSE
      statement_if
        IF
        test_comp
          "%MY_FLAG%"
          ==
          "1"
        group
          (
          subprogram
            command_goto
              GOTO
              LABEL_PROCESS1
          )
        statement_else
          ELSE
          group
            (
            subprogram
              command_goto
                GOTO
                LABEL_PROCESS2
            )`,
		},
		{
			name: "if else if else slim oneline with spaces",
			input: `
IF "%MY_FLAG%" == "0" ( GOTO LABEL_PROCESS1 ) ELSE IF "%MY_FLAG%" == "1" ( GOTO LABEL_PROCESS1 ) ELSE ( GOTO LABEL_PROCESS2 )
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "0"
    group
      (
      subprogram
        command_goto
          GOTO
          LABEL_PROCESS1
      )
    statement_else
      ELSE
      statement_if
        IF
        test_comp
          "%MY_FLAG%"
          ==
          "1"
        group
          (
          subprogram
            command_goto
              GOTO
              LABEL_PROCESS1
          )
        statement_else
          ELSE
          group
            (
            subprogram
              command_goto
                GOTO
                LABEL_PROCESS2
            )`,
		},
		{
			name: "nested if",
			input: `
IF "%I%" == "1" (
    IF "%J%" == "2" (
        echo OK
    )
)
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%I%"
      ==
      "1"
    group
      (
      subprogram
        statement_if
          IF
          test_comp
            "%J%"
            ==
            "2"
          group
            (
            subprogram
              command_echo
                echo
                OK
            )
      )`,
		},
		{
			name: "if command oneline",
			input: `
IF NOT "%ERRORLEVEL%"=="0" %MYDIR%\MYCALL %MYDIR%\MYCOMMAND ERROR -n 0 >> %OUTPUT_LOG%
`,
			want: `
program
  statement_if
    IF
    test_not_comp
      NOT
      "%ERRORLEVEL%"
      ==
      "0"
    command_oneline
      command_exe
        %MYDIR%\MYCALL
        %MYDIR%\MYCOMMAND ERROR -n 0 
      redirect_stdout
        >>
        %OUTPUT_LOG%`,
		},
		{
			name: "if else command oneline else",
			input: `
IF /I "%INPUT%" == "N" (GOTO L_CANCEL) ELSE GOTO L_CHECK
`,
			want: `
program
  statement_if
    IF
    test_comp
      /I
      "%INPUT%"
      ==
      "N"
    group
      (
      subprogram
        command_goto
          GOTO
          L_CANCEL
      )
    statement_else
      ELSE
      command_goto
        GOTO
        L_CHECK`,
		},
		{
			name: "if else set in paren",
			input: `
IF "%MY_FLAG%" == "0" (SET CONFIG=01.2) ELSE (SET CONFIG=71.2)
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MY_FLAG%"
      ==
      "0"
    group
      (
      subprogram
        command_set
          SET
          CONFIG
          =
          01.2
      )
    statement_else
      ELSE
      group
        (
        subprogram
          command_set
            SET
            CONFIG
            =
            71.2
        )`,
		},
		{
			name: "if doublequote4",
			input: `
IF "%MYFLAG%" == """" echo ok
`,
			want: `
program
  statement_if
    IF
    test_comp
      "%MYFLAG%"
      ==
      """"
    command_echo
      echo
      ok`,
		},
		{
			name: "if left variable replace",
			input: `
IF %NUMBER:"='% == 123 echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      %NUMBER:"='%
      ==
      123
    command_echo
      echo
      OK`,
		},
		{
			name: "if right variable replace",
			input: `
IF 123 == %NUMBER:"='% echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      123
      ==
      %NUMBER:"='%
    command_echo
      echo
      OK`,
		},
		{
			name: "if left variable substr start only",
			input: `
IF %NUMBER:~6% == 123 echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      %NUMBER:~6%
      ==
      123
    command_echo
      echo
      OK`,
		},
		{
			name: "if right variable substr start only",
			input: `
IF 123 == %NUMBER:~6% echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      123
      ==
      %NUMBER:~6%
    command_echo
      echo
      OK`,
		},
		{
			name: "if left variable substr plus range",
			input: `
IF %NUMBER:~6,4% == 123 echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      %NUMBER:~6,4%
      ==
      123
    command_echo
      echo
      OK`,
		},
		{
			name: "if right variable substr plus range",
			input: `
IF 123 == %NUMBER:~6,4% echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      123
      ==
      %NUMBER:~6,4%
    command_echo
      echo
      OK`,
		},
		{
			name: "if left variable substr minus",
			input: `
IF %NUMBER~-8,-4% == 123 echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      %NUMBER~-8,-4%
      ==
      123
    command_echo
      echo
      OK`,
		},
		{
			name: "if right variable substr minus",
			input: `
IF 123 == %NUMBER~-8,-4% echo OK
`,
			want: `
program
  statement_if
    IF
    test_comp
      123
      ==
      %NUMBER~-8,-4%
    command_echo
      echo
      OK`,
		},
		{
			name: "if i option",
			input: `
if /I {%1}=={out} SET RETRY_FLAG=1
`,
			want: `
program
  statement_if
    if
    test_comp
      /I
      {%1}
      ==
      {out}
    command_set
      SET
      RETRY_FLAG
      =
      1`,
		},
		{
			name: "if defined",
			input: `
if defined VAL goto OK
`,
			want: `
program
  statement_if
    if
    test_defined
      defined
      VAL
    command_goto
      goto
      OK`,
		},
		{
			name: "if defined arg",
			input: `
if defined %3 goto OK
`,
			want: `
program
  statement_if
    if
    test_defined
      defined
      %3
    command_goto
      goto
      OK`,
		},
		{
			name: "if not defined arg",
			input: "\n" +
				"IF NOT DEFINED %3 (\n" +
				"\techo ok\n" +
				")\n",
			want: `
program
  statement_if
    IF
    test_not_defined
      NOT
      DEFINED
      %3
    group
      (
      subprogram
        command_echo
          echo
          ok
      )`,
		},
		{
			name: "if errorlevel",
			input: `
if errorlevel 1 goto ONE
`,
			want: `
program
  statement_if
    if
    test_errorlevel
      errorlevel
      1
    command_goto
      goto
      ONE`,
		},
		{
			name: "if errorlevel 0",
			input: `
if errorlevel 0 goto ONE
`,
			want: `
program
  statement_if
    if
    test_errorlevel
      errorlevel
      0
    command_goto
      goto
      ONE`,
		},
		{
			name: "if errorlevel minus1",
			input: `
if errorlevel -1 goto ONE
`,
			want: `
program
  statement_if
    if
    test_errorlevel
      errorlevel
      -1
    command_goto
      goto
      ONE`,
		},
		{
			name: "if not errorlevel 0",
			input: `
if not errorlevel 0 goto ONE
`,
			want: `
program
  statement_if
    if
    test_not_errorlevel
      not
      errorlevel
      0
    command_goto
      goto
      ONE`,
		},
		{
			name: "if command exe in paren",
			input: `
IF NOT EXIST %TARGET_PATH% (mkdir %TARGET_PATH%)
`,
			want: `
program
  statement_if
    IF
    test_not_exist
      NOT
      EXIST
      %TARGET_PATH%
    group
      (
      subprogram
        command_exe
          mkdir
          %TARGET_PATH%
      )`,
		},
		{
			name: "if variable replacement match",
			input: `
IF %ERRORLEVEL%==0 (
    for /f "delims=" %%i IN ('..\Bin\Custom.exe /E:%CONFIGPATH%') DO SET KEEPDAYS=%%i >> %OUTPUT_LOG% 2>&1
) else (
    SET KEEPDAYS=%KEEPDAYS_DEF%
    echo %KEEPDAYS_DEF% >> %OUTPUT_LOG% 2>&1
    echo DEBUG LOG >> %OUTPUT_LOG% 2>&1
)
echo −−−−−−−−−② >> %OUTPUT_LOG% 2>&1

REM TMP1_TARGETDATE
@SET TMP1_TARGETDATE=
@rem 2025/06/11 This is a comment
IF "%LASTDATE%"=="" goto :L_TMP2
`,
			want: "program\n" +
				"  statement_if\n" +
				"    IF\n" +
				"    test_comp\n" +
				"      %ERRORLEVEL%\n" +
				"      ==\n" +
				"      0\n" +
				"    group\n" +
				"      (\n" +
				"      subprogram\n" +
				"        statement_for_f\n" +
				"          for\n" +
				"          /f\n" +
				"          \"delims=\"\n" +
				"          for_parameter\n" +
				"            %%\n" +
				"            i\n" +
				"          IN\n" +
				"          (\n" +
				"          for_range_command\t'..\\Bin\\Custom.exe /E:%CONFIGPATH%'\n" +
				"          )\n" +
				"          DO\n" +
				"          command_oneline\n" +
				"            command_set\n" +
				"              SET\n" +
				"              KEEPDAYS\n" +
				"              =\n" +
				"              %%i \n" +
				"            redirect_stdout\n" +
				"              >>\n" +
				"              %OUTPUT_LOG%\n" +
				"            redirect_stderr\n" +
				"              2>\n" +
				"              &1\n" +
				"      )\n" +
				"    statement_else\n" +
				"      else\n" +
				"      group\n" +
				"        (\n" +
				"        subprogram\n" +
				"          command_set\n" +
				"            SET\n" +
				"            KEEPDAYS\n" +
				"            =\n" +
				"            %KEEPDAYS_DEF%\n" +
				"          subcommand_oneline\n" +
				"            command_echo\n" +
				"              echo\n" +
				"              %KEEPDAYS_DEF% \n" +
				"            redirect_stdout\n" +
				"              >>\n" +
				"              %OUTPUT_LOG%\n" +
				"            redirect_stderr\n" +
				"              2>\n" +
				"              &1\n" +
				"          subcommand_oneline\n" +
				"            command_echo\n" +
				"              echo\n" +
				"              DEBUG LOG \n" +
				"            redirect_stdout\n" +
				"              >>\n" +
				"              %OUTPUT_LOG%\n" +
				"            redirect_stderr\n" +
				"              2>\n" +
				"              &1\n" +
				"        )\n" +
				"  command_oneline\n" +
				"    command_echo\n" +
				"      echo\n" +
				"      −−−−−−−−−② \n" +
				"    redirect_stdout\n" +
				"      >>\n" +
				"      %OUTPUT_LOG%\n" +
				"    redirect_stderr\n" +
				"      2>\n" +
				"      &1\n" +
				"  emptyline\t\n" +
				"  command_rem\n" +
				"    REM\n" +
				"    TMP1_TARGETDATE\n" +
				"  command_set\n" +
				"    SET\n" +
				"    TMP1_TARGETDATE\n" +
				"    =\n" +
				"  command_rem\n" +
				"    rem\n" +
				"    2025/06/11 This is a comment\n" +
				"  statement_if\n" +
				"    IF\n" +
				"    test_comp\n" +
				"      \"%LASTDATE%\"\n" +
				"      ==\n" +
				"      \"\"\n" +
				"    command_goto\n" +
				"      goto\n" +
				"      :\n" +
				"      L_TMP2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTree(t, tt.input, tt.want)
		})
	}
}
