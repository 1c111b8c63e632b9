package exec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/galleyproject/galley/pkg/compile"
	"github.com/galleyproject/galley/pkg/resource"
)

// StarlarkExecutor executes cookbook artifact files as Starlark scripts.
// It implements compile.Executor.
type StarlarkExecutor struct{}

// NewStarlarkExecutor creates an executor.
func NewStarlarkExecutor() *StarlarkExecutor {
	return &StarlarkExecutor{}
}

// attributeCarrier is the node surface attribute state round-trips
// through. Nodes that don't expose it simply get no `node` mutations
// persisted.
type attributeCarrier interface {
	Attributes() map[string]any
	ReplaceAttributes(map[string]any)
}

// ExecuteFile runs one artifact file to completion within the run context.
func (e *StarlarkExecutor) ExecuteFile(file compile.ArtifactFile, rc *compile.RunContext) error {
	src, err := os.ReadFile(file.Path)
	if err != nil {
		return err
	}

	nodeDict, carrier, err := nodeBinding(rc)
	if err != nil {
		return err
	}

	predeclared := starlark.StringDict{
		"struct":            starlarkstruct.Default,
		"node":              nodeDict,
		"resource":          resourceBuiltin(file, rc),
		"notify":            notifyBuiltin(rc),
		"include_recipe":    includeRecipeBuiltin(rc),
		"include_attribute": includeAttributeBuiltin(rc),
		"define":            defineBuiltin(file, rc),
		"register_provider": registerProviderBuiltin(file, rc),
		"register_resource": registerResourceBuiltin(file, rc),
	}

	// Library helpers registered by earlier files are visible to every
	// later execution under their exported names.
	for name, v := range rc.Registry.Libraries() {
		if sv, ok := v.(starlark.Value); ok {
			predeclared[name] = sv
		}
	}

	thread := &starlark.Thread{
		Name: file.String(),
		Print: func(_ *starlark.Thread, msg string) {
			log.Info().Str("cookbook", file.Cookbook).Str("path", file.Path).Msg(msg)
		},
	}

	globals, err := starlark.ExecFile(thread, file.Path, src, predeclared)
	if err != nil {
		return err
	}

	switch file.Kind {
	case compile.KindLibrary:
		for name, v := range globals {
			if strings.HasPrefix(name, "_") {
				continue
			}
			rc.Registry.RegisterLibrary(name, v)
		}
	case compile.KindAttribute:
		if carrier != nil {
			attrs, err := dictToMap(nodeDict)
			if err != nil {
				return fmt.Errorf("attribute file %s produced unconvertible node state: %w", file.Path, err)
			}
			carrier.ReplaceAttributes(attrs)
		}
	}
	return nil
}

// nodeBinding builds the `node` dict for an execution and returns the
// carrier to write attribute state back to, if the node supports it.
func nodeBinding(rc *compile.RunContext) (*starlark.Dict, attributeCarrier, error) {
	carrier, ok := rc.Node.(attributeCarrier)
	if !ok {
		return starlark.NewDict(0), nil, nil
	}
	v, err := toStarlark(carrier.Attributes())
	if err != nil {
		return nil, nil, err
	}
	return v.(*starlark.Dict), carrier, nil
}

// resourceValue is the Starlark form of a declared resource, usable as a
// notifier.
type resourceValue struct {
	res *resource.Resource
}

func (v resourceValue) String() string        { return v.res.ID() }
func (v resourceValue) Type() string          { return "resource" }
func (v resourceValue) Freeze()               {}
func (v resourceValue) Truth() starlark.Bool  { return starlark.True }
func (v resourceValue) Hash() (uint32, error) { return starlark.String(v.res.ID()).Hash() }

func resourceBuiltin(file compile.ArtifactFile, rc *compile.RunContext) *starlark.Builtin {
	return starlark.NewBuiltin("resource", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: expected type and name arguments, got %d", b.Name(), len(args))
		}
		typ, ok := starlark.AsString(args[0])
		if !ok {
			return nil, fmt.Errorf("%s: type must be a string", b.Name())
		}
		name, ok := starlark.AsString(args[1])
		if !ok {
			return nil, fmt.Errorf("%s: name must be a string", b.Name())
		}

		res := &resource.Resource{
			Type:       typ,
			Name:       name,
			Properties: make(map[string]any),
			Cookbook:   file.Cookbook,
		}
		if file.Kind == compile.KindRecipe {
			res.Recipe = shortName(file.Path)
		}

		for _, kv := range kwargs {
			key := string(kv[0].(starlark.String))
			gv, err := fromStarlark(kv[1])
			if err != nil {
				return nil, fmt.Errorf("%s: property %s: %w", b.Name(), key, err)
			}
			if key == "action" {
				res.Action = fmt.Sprint(gv)
				continue
			}
			res.Properties[key] = gv
		}

		rc.Resources.Add(res)
		return resourceValue{res: res}, nil
	})
}

func notifyBuiltin(rc *compile.RunContext) *starlark.Builtin {
	return starlark.NewBuiltin("notify", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var notifier starlark.Value
		var action, target, timing string
		timing = "delayed"
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"notifier", &notifier, "action", &action, "target", &target, "timing?", &timing); err != nil {
			return nil, err
		}

		n := compile.Notification{Action: action, Target: target}
		if rv, ok := notifier.(resourceValue); ok {
			n.Notifier = rv.res
		} else if s, ok := starlark.AsString(notifier); ok {
			n.Notifier = s
		} else {
			return nil, fmt.Errorf("%s: notifier must be a resource or a string, got %s", b.Name(), notifier.Type())
		}

		switch timing {
		case "immediate", "immediately":
			rc.NotifyImmediately(n)
		case "delayed":
			rc.NotifyDelayed(n)
		default:
			return nil, fmt.Errorf("%s: unknown timing %q", b.Name(), timing)
		}
		return starlark.None, nil
	})
}

func includeRecipeBuiltin(rc *compile.RunContext) *starlark.Builtin {
	return starlark.NewBuiltin("include_recipe", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if len(kwargs) > 0 {
			return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
		}
		names := make([]string, 0, len(args))
		for _, arg := range args {
			name, ok := starlark.AsString(arg)
			if !ok {
				return nil, fmt.Errorf("%s: recipe names must be strings, got %s", b.Name(), arg.Type())
			}
			names = append(names, name)
		}
		if _, err := rc.Includer().Include(names...); err != nil {
			return nil, err
		}
		return starlark.None, nil
	})
}

func includeAttributeBuiltin(rc *compile.RunContext) *starlark.Builtin {
	return starlark.NewBuiltin("include_attribute", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
			return nil, err
		}
		if err := rc.Node.IncludeAttribute(name); err != nil {
			return nil, err
		}
		return starlark.None, nil
	})
}

func defineBuiltin(file compile.ArtifactFile, rc *compile.RunContext) *starlark.Builtin {
	return starlark.NewBuiltin("define", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var params *starlark.Dict
		var body starlark.Value
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "params?", &params, "body?", &body); err != nil {
			return nil, err
		}
		pm, err := dictToMap(params)
		if err != nil {
			return nil, fmt.Errorf("%s: params: %w", b.Name(), err)
		}
		rc.Definitions.Register(&compile.Definition{
			Name:     name,
			Cookbook: file.Cookbook,
			Params:   pm,
			Body:     body,
		})
		return starlark.None, nil
	})
}

func registerProviderBuiltin(file compile.ArtifactFile, rc *compile.RunContext) *starlark.Builtin {
	return starlark.NewBuiltin("register_provider", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name string
		var actions *starlark.Dict
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "actions?", &actions); err != nil {
			return nil, err
		}
		acts := make(map[string]any)
		if actions != nil {
			for _, item := range actions.Items() {
				key, ok := item[0].(starlark.String)
				if !ok {
					return nil, fmt.Errorf("%s: action names must be strings", b.Name())
				}
				acts[string(key)] = item[1]
			}
		}
		rc.Registry.RegisterProvider(&resource.ProviderType{
			Name:     name,
			Cookbook: file.Cookbook,
			Actions:  acts,
		})
		return starlark.None, nil
	})
}

func registerResourceBuiltin(file compile.ArtifactFile, rc *compile.RunContext) *starlark.Builtin {
	return starlark.NewBuiltin("register_resource", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var name, defaultAction string
		var properties *starlark.List
		if err := starlark.UnpackArgs(b.Name(), args, kwargs,
			"name", &name, "properties?", &properties, "default_action?", &defaultAction); err != nil {
			return nil, err
		}
		var props []string
		if properties != nil {
			for i := 0; i < properties.Len(); i++ {
				p, ok := starlark.AsString(properties.Index(i))
				if !ok {
					return nil, fmt.Errorf("%s: property names must be strings", b.Name())
				}
				props = append(props, p)
			}
		}
		rc.Registry.RegisterResource(&resource.ResourceType{
			Name:          name,
			Cookbook:      file.Cookbook,
			Properties:    props,
			DefaultAction: defaultAction,
		})
		return starlark.None, nil
	})
}

func shortName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
