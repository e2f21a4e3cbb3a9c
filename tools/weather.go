package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexcodex/counsel/framework"
)

// WeatherTool is the canned demo tool used to exercise the agent loop without
// touching the filesystem.
type WeatherTool struct{}

func (t *WeatherTool) Name() string        { return "get_weather" }
func (t *WeatherTool) Description() string { return "Get the weather for a specific location." }
func (t *WeatherTool) Parameters() []framework.ToolParameter {
	return []framework.ToolParameter{
		{Name: "location", Type: "string", Required: true, Description: "City or place to look up"},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, args map[string]any) *framework.ToolResult {
	location := argString(args, "location", "")
	if location == "" {
		return framework.Fail("location is required")
	}
	lower := strings.ToLower(location)
	if strings.Contains(lower, "sf") || strings.Contains(lower, "san francisco") {
		return framework.Succeed("It's sunny in San Francisco.", nil)
	}
	return framework.Succeed(fmt.Sprintf("I am not sure what the weather is in %s", location), nil)
}
