package integration_test

import (
	"testing"

	"gancho/test/integration/harness"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(t *testing.T, env *harness.TestEnvironment)
		args         []string
		wantExitCode int
		validate     func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult)
	}{
		{
			name: "valid configuration reports OK",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectHook("lint", `exit 0`)
				env.WriteProjectRouting(`{"version":1,"PreToolUse":{"Bash":["lint"]}}`)
			},
			args:         []string{"validate"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "Project root: "+env.ProjectDir)
				harness.AssertStdoutContains(t, result, "active")
				harness.AssertStdoutContains(t, result, "hooks.json")
				harness.AssertStdoutContains(t, result, "lint")
				harness.AssertStdoutContains(t, result, "project")
				harness.AssertStdoutContains(t, result, "Configuration OK")
			},
		},
		{
			name:         "missing configuration is not an error",
			args:         []string{"validate"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "No routing configuration found")
				harness.AssertStdoutContains(t, result, "absent")
			},
		},
		{
			name: "malformed routing file is a problem",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectRouting(`{broken`)
			},
			args:         []string{"validate"},
			wantExitCode: 1,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "invalid")
				harness.AssertStderrContains(t, result, "1 problem found")
			},
		},
		{
			name: "unresolvable hook is a problem",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectRouting(`{"version":1,"PreToolUse":{"Bash":["ghost"]}}`)
			},
			args:         []string{"validate"},
			wantExitCode: 1,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "ghost")
				harness.AssertStdoutNotContains(t, result, "Configuration OK")
				harness.AssertStderrContains(t, result, "1 problem found")
			},
		},
		{
			name: "each unresolvable hook counts",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectRouting(`{"version":1,"PreToolUse":{"Bash":["ghost"]},"Stop":["phantom"]}`)
			},
			args:         []string{"validate"},
			wantExitCode: 1,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStderrContains(t, result, "2 problems found")
			},
		},
		{
			name: "local file shadows the project file",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectRouting(`{"version":1}`)
				env.WriteLocalRouting(`{"version":1}`)
			},
			args:         []string{"validate"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "active")
				harness.AssertStdoutContains(t, result, "shadowed")
				harness.AssertStdoutContains(t, result, "hooks.local.json")
				harness.AssertStdoutContains(t, result, "No hooks routed.")
			},
		},
		{
			name: "table warnings are problems",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectRouting(`{"version":1,"Teleport":["nope"]}`)
			},
			args:         []string{"validate"},
			wantExitCode: 1,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "Warnings:")
				harness.AssertStdoutContains(t, result, `unknown routing key "Teleport"`)
			},
		},
		{
			name: "disabled hooks resolve but are marked",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectHook("lint", `exit 0`)
				env.WriteProjectRouting(`{"version":1,"hooks":{"lint":{"disabled":true}},"PreToolUse":{"Bash":["lint"]}}`)
			},
			args:         []string{"validate"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "(disabled)")
				harness.AssertStdoutContains(t, result, "Configuration OK")
			},
		},
		{
			name: "unrouted definitions are informational",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectHook("lint", `exit 0`)
				env.WriteProjectRouting(`{"version":1,"hooks":{"orphan":{"command":"echo hi"}},"PreToolUse":{"Bash":["lint"]}}`)
			},
			args:         []string{"validate"},
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "Defined but not routed: orphan")
				harness.AssertStdoutContains(t, result, "Configuration OK")
			},
		},
		{
			name: "explicit directory argument overrides the cwd",
			setup: func(t *testing.T, env *harness.TestEnvironment) {
				env.WriteProjectRouting(`{"version":1}`)
			},
			args:         nil, // filled per-test below; needs env.ProjectDir
			wantExitCode: 0,
			validate: func(t *testing.T, env *harness.TestEnvironment, result harness.CommandResult) {
				harness.AssertStdoutContains(t, result, "Project root: "+env.ProjectDir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := harness.NewTestEnvironment(t)

			if tt.setup != nil {
				tt.setup(t, env)
			}

			args := tt.args
			if args == nil {
				args = []string{"validate", env.ProjectDir}
			}
			result := harness.RunCommand(t, env, args...)

			if tt.wantExitCode == 0 {
				harness.AssertSuccess(t, result)
			} else {
				harness.AssertExitCode(t, result, tt.wantExitCode)
			}

			if tt.validate != nil {
				tt.validate(t, env, result)
			}
		})
	}
}
