package config_global

import (
	"path/filepath"
	"reflect"

	"github.com/AlexTransit/teller/helpers"
	"github.com/AlexTransit/teller/log2"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/juju/errors"
	"github.com/zclconf/go-cty/cty"
)

// read applies one source over c, then its includes in order.
func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		*errs = append(*errs, errors.Errorf("config duplicate source=%s", source.Name))
		return
	}
	log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			*errs = append(*errs, errors.NotFoundf("config required name=%s path=%s", source.Name, norm))
		}
		return
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	file, diags := hclsyntax.ParseConfig(bs, norm, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		*errs = append(*errs, errors.Annotatef(diags, "config parse source=%s", source.Name))
		return
	}
	var fc fileStruct
	if diags := gohcl.DecodeBody(file.Body, nil, &fc); diags.HasErrors() {
		*errs = append(*errs, errors.Annotatef(diags, "config decode source=%s", source.Name))
		return
	}
	if attrs, _ := fc.Remain.JustAttributes(); len(attrs) != 0 {
		for name := range attrs {
			log.Warningf("config source=%s unknown attribute=%s", source.Name, name)
		}
	}
	if fc.Teller != nil {
		if diags := overrideBlock(fc.Teller.Body, &c.Teller); diags.HasErrors() {
			*errs = append(*errs, errors.Annotatef(diags, "config decode source=%s block=teller", source.Name))
		}
	}
	if fc.Tele != nil {
		if diags := overrideBlock(fc.Tele.Body, &c.Tele); diags.HasErrors() {
			*errs = append(*errs, errors.Annotatef(diags, "config decode source=%s block=tele", source.Name))
		}
	}

	dir := filepath.Dir(norm)
	for _, include := range fc.Include {
		if !filepath.IsAbs(include.Name) {
			include.Name = filepath.Join(dir, include.Name)
		}
		if _, ok := c.includeSeen[fs.Normalize(include.Name)]; ok {
			*errs = append(*errs, errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name))
			continue
		}
		c.read(log, fs, include, errs)
	}
}

// overrideBlock decodes body into fresh value of target type and copies
// only attributes written in body, so later file can reset value to false or 0.
func overrideBlock(body hcl.Body, target interface{}) hcl.Diagnostics {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	override := reflect.New(reflect.TypeOf(target).Elem()).Interface()
	if diags := gohcl.DecodeBody(body, nil, override); diags.HasErrors() {
		return diags
	}
	helpers.OverrideStructure(target, override, func(attr string) bool {
		_, ok := attrs[attr]
		return ok
	})
	return nil
}

// ReadConfig reads named sources with their includes over defaults.
// Later sources override values of earlier ones.
func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		return nil, errors.NotValidf("config: no source names")
	}
	names = append([]string(nil), names...)
	if dr, ok := fs.(*DirReader); ok && dr.Dir == "" {
		abs, err := filepath.Abs(filepath.Dir(names[0]))
		if err != nil {
			return nil, errors.Annotatef(err, "config base source=%s", names[0])
		}
		dr.Dir = abs
		names[0] = filepath.Base(names[0])
	}
	c := NewDefault()
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}

// WriteDefault renders default config text.
func WriteDefault() []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	tb := body.AppendNewBlock("teller", nil).Body()
	nominals := make([]cty.Value, len(DefaultNominals))
	for i, n := range DefaultNominals {
		nominals[i] = cty.NumberIntVal(int64(n))
	}
	tb.SetAttributeValue("nominals", cty.ListVal(nominals))
	tb.SetAttributeValue("log_debug", cty.False)
	body.AppendNewline()

	teleBody := body.AppendNewBlock("tele", nil).Body()
	teleBody.SetAttributeValue("enable", cty.False)
	teleBody.SetAttributeValue("vm_id", cty.NumberIntVal(0))
	teleBody.SetAttributeValue("mqtt_broker", cty.StringVal("tcp://localhost:1883"))
	teleBody.SetAttributeValue("store_path", cty.StringVal("./teller-tele"))
	return f.Bytes()
}
