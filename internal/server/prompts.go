package server

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// RegisterPrompts adds the analysis prompt templates.
func RegisterPrompts(s *Server) {
	s.AddPrompt(mcp.NewPrompt("analyze_network_health",
		mcp.WithPromptDescription("Analyze mesh network health and performance"),
		mcp.WithArgument("focus_area",
			mcp.ArgumentDescription("Specific area to focus analysis on"),
		),
	), getNetworkHealthPrompt)

	s.AddPrompt(mcp.NewPrompt("debug_protocol_issue",
		mcp.WithPromptDescription("Debug a specific protocol or networking issue"),
		mcp.WithArgument("issue_description",
			mcp.ArgumentDescription("Description of the issue"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("error_logs",
			mcp.ArgumentDescription("Any error logs or debug information"),
		),
	), getDebugProtocolPrompt)

	s.AddPrompt(mcp.NewPrompt("security_audit",
		mcp.WithPromptDescription("Perform security analysis on cryptographic implementations"),
		mcp.WithArgument("component",
			mcp.ArgumentDescription("Specific component to audit"),
		),
	), getSecurityAuditPrompt)

	s.AddPrompt(mcp.NewPrompt("optimize_performance",
		mcp.WithPromptDescription("Suggest performance improvements based on current metrics"),
		mcp.WithArgument("performance_data",
			mcp.ArgumentDescription("Current performance metrics"),
		),
	), getOptimizePerformancePrompt)
}

func promptArg(args map[string]string, key, fallback string) string {
	if v, ok := args[key]; ok && v != "" {
		return v
	}
	return fallback
}

func getNetworkHealthPrompt(_ context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	focusArea := promptArg(args, "focus_area", "overall")
	return mcp.NewGetPromptResult(
		fmt.Sprintf("Analyze mesh network health focusing on %s", focusArea),
		userMessage(fmt.Sprintf(
			"Please analyze the current mesh network health. Focus on: %s. "+
				"Use the available tools to gather network topology, peer information, and activity data.",
			focusArea)),
	), nil
}

func getDebugProtocolPrompt(_ context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	issue, ok := args["issue_description"]
	if !ok {
		return nil, fmt.Errorf("issue_description is required")
	}
	errorLogs := args["error_logs"]
	return mcp.NewGetPromptResult(
		"Debug protocol issue",
		userMessage(fmt.Sprintf(
			"Help me debug this protocol issue: %s\n\nError logs:\n%s\n\n"+
				"Please use the available tools to analyze the protocol and suggest solutions.",
			issue, errorLogs)),
	), nil
}

func getSecurityAuditPrompt(_ context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	component := promptArg(args, "component", "all")
	return mcp.NewGetPromptResult(
		fmt.Sprintf("Security audit for %s", component),
		userMessage(fmt.Sprintf(
			"Please perform a security audit of the %s component. "+
				"Analyze the cryptographic implementations, protocol security, and suggest improvements.",
			component)),
	), nil
}

func getOptimizePerformancePrompt(_ context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
	performanceData := args["performance_data"]
	return mcp.NewGetPromptResult(
		"Performance optimization recommendations",
		userMessage(fmt.Sprintf(
			"Analyze the current performance metrics and suggest optimizations:\n\n%s\n\n"+
				"Use the available tools to gather additional performance data.",
			performanceData)),
	), nil
}
