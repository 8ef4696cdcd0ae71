package transpile

import (
	"errors"
	"strings"
	"testing"
)

func TestTranspileJSX(t *testing.T) {
	out, err := Transpile(`const Hero = () => <section className="py-20"><h1>Hi</h1><></></section>;`)
	if err != nil {
		t.Fatalf("Transpile() error = %v", err)
	}
	for _, want := range []string{`React.createElement("section"`, `className: "py-20"`, "React.Fragment"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<section") {
		t.Errorf("JSX left in output:\n%s", out)
	}
}

func TestTranspilePreservesClassTemplates(t *testing.T) {
	src := "const Card = ({ active }) => <div className={`p-4 md:p-8 hover:bg-blue-500 ${active ? 'ring-2' : ''} lg:w-1/2`}>x</div>;"
	out, err := Transpile(src)
	if err != nil {
		t.Fatalf("Transpile() error = %v", err)
	}
	for _, want := range []string{"`p-4 md:p-8 hover:bg-blue-500 ${", "} lg:w-1/2`"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "__genesis_cls_") {
		t.Errorf("placeholder leaked:\n%s", out)
	}
}

func TestTranspileErrorCarriesDiagnostics(t *testing.T) {
	_, err := Transpile("const A = () => <div>;")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrTranspile) {
		t.Errorf("error %v is not ErrTranspile", err)
	}
	var te *TranspileError
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not *TranspileError", err)
	}
	if te.Diagnostics == "" || len(te.Messages) == 0 {
		t.Errorf("diagnostics missing: %+v", te)
	}
	if !strings.Contains(te.Diagnostics, "generated-component.jsx") {
		t.Errorf("diagnostics should name the source file: %s", te.Diagnostics)
	}
}

func TestCompile(t *testing.T) {
	src := "```tsx\nimport React from 'react';\n\nconst Hero: React.FC = () => <h1>Launch</h1>;\n\nexport default Hero;\n```"
	res, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if res.OriginalCode != src {
		t.Error("OriginalCode changed")
	}
	if res.CleanCode != "const Hero = () => <h1>Launch</h1>;" {
		t.Errorf("CleanCode = %q", res.CleanCode)
	}
	if res.ExportName != "Hero" {
		t.Errorf("ExportName = %q", res.ExportName)
	}
	if !strings.Contains(res.CompiledCode, `React.createElement("h1", null, "Launch")`) {
		t.Errorf("CompiledCode = %s", res.CompiledCode)
	}
}

func TestProtectClassTemplatesWithoutColon(t *testing.T) {
	src := "<div className={`p-4 ${x}`} />"
	got, restore := protectClassTemplates(src)
	if got != src {
		t.Errorf("protected = %q, want unchanged", got)
	}
	if restore("abc") != "abc" {
		t.Error("restore should be identity")
	}
}
