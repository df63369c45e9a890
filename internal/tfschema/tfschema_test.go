package tfschema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eldrevo/hclcore/decode"
	"github.com/eldrevo/hclcore/options"
	"github.com/eldrevo/hclcore/parser"
)

func TestConfigDecodesVariablesAndOutputs(t *testing.T) {
	t.Parallel()
	src := `
		variable "region" {
			description = "AWS region"
			type        = "string"
			default     = "us-east-1"
		}

		variable "instance_count" {
			type = "number"

			validation {
				condition     = "var.instance_count > 0"
				error_message = "must be positive"
			}
		}

		output "arn" {
			description = "resource ARN"
			sensitive   = true
		}
	`

	body, err := parser.ParseBodyString(context.Background(), "main.tf.hcl", src, options.Default())
	require.NoError(t, err)

	var cfg Config
	require.NoError(t, decode.Body(body, &cfg))

	require.Len(t, cfg.Variables, 2)
	require.Equal(t, "region", cfg.Variables[0].Name)
	require.False(t, cfg.Variables[0].Required)
	require.Equal(t, "AWS region", cfg.Variables[0].Description)

	require.Equal(t, "instance_count", cfg.Variables[1].Name)
	require.True(t, cfg.Variables[1].Required)
	require.Len(t, cfg.Variables[1].Validations, 1)
	require.Equal(t, "must be positive", cfg.Variables[1].Validations[0].ErrorMessage)

	require.Len(t, cfg.Outputs, 1)
	require.Equal(t, "arn", cfg.Outputs[0].Name)
	require.True(t, cfg.Outputs[0].Sensitive)
}

func TestValidationRequiresBothFields(t *testing.T) {
	t.Parallel()
	body, err := parser.ParseBodyString(context.Background(), "validation.hcl", `
		condition = "true"
	`, options.Default())
	require.NoError(t, err)

	var v Validation
	err = decode.Body(body, &v)
	require.Error(t, err)
	var de *decode.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, decode.MissingField, de.Kind)
	require.Equal(t, "error_message", de.Name)
}
