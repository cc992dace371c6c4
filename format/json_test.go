package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/smali/model"
)

const sampleSource = `
.class public final Lcom/example/Point;
.super Ljava/lang/Object;
.source "Point.java"

.field private x:I = 0x1

.method public constructor <init>()V
    .registers 1
    invoke-direct {p0}, Ljava/lang/Object;-><init>()V
    return-void
.end method
`

func TestJSONEncoder(t *testing.T) {
	class, err := model.FromString(sampleSource)
	if err != nil {
		t.Fatalf("FromString() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(class); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var decoded struct {
		Descriptor string   `json:"descriptor"`
		Name       string   `json:"name"`
		SimpleName string   `json:"simpleName"`
		Package    string   `json:"package"`
		SuperClass string   `json:"superClass"`
		Modifiers  []string `json:"modifiers"`
		Fields     []struct {
			Name  string `json:"name"`
			Value string `json:"value"`
		} `json:"fields"`
		Methods []struct {
			Name       string `json:"name"`
			Descriptor string `json:"descriptor"`
			Registers  int    `json:"registers"`
			Invokes    []struct {
				Qualifier string `json:"qualifier"`
				Owner     string `json:"owner"`
			} `json:"invokes"`
		} `json:"methods"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.Descriptor != "Lcom/example/Point;" {
		t.Errorf("descriptor = %q", decoded.Descriptor)
	}
	if decoded.Name != "com.example.Point" || decoded.SimpleName != "Point" || decoded.Package != "com.example" {
		t.Errorf("name fields = %q / %q / %q", decoded.Name, decoded.SimpleName, decoded.Package)
	}
	if decoded.SuperClass != "Ljava/lang/Object;" {
		t.Errorf("superClass = %q", decoded.SuperClass)
	}
	if len(decoded.Modifiers) != 2 {
		t.Errorf("modifiers = %v, want [public final]", decoded.Modifiers)
	}
	if len(decoded.Fields) != 1 || decoded.Fields[0].Name != "x" || decoded.Fields[0].Value != "0x1" {
		t.Errorf("fields = %+v", decoded.Fields)
	}
	if len(decoded.Methods) != 1 {
		t.Fatalf("methods = %+v", decoded.Methods)
	}
	m := decoded.Methods[0]
	if m.Name != "<init>" || m.Descriptor != "()V" || m.Registers != 1 {
		t.Errorf("method = %+v", m)
	}
	if len(m.Invokes) != 1 || m.Invokes[0].Qualifier != "direct" || m.Invokes[0].Owner != "Ljava/lang/Object;" {
		t.Errorf("invokes = %+v", m.Invokes)
	}
}

func TestSmaliEncoder(t *testing.T) {
	class, err := model.FromString(`
.class public Lcom/example/Config;
.super Ljava/lang/Object;
.implements Ljava/io/Serializable;

.annotation system Ldalvik/annotation/MemberClasses;
    value = {
        Lcom/example/Config$Inner;
    }
.end annotation

.field public static final DEBUG:Z = true

.method public size()I
    .registers 2
.end method
`)
	if err != nil {
		t.Fatalf("FromString() error = %v", err)
	}

	var buf bytes.Buffer
	if err := NewSmaliEncoder(&buf).Encode(class); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out := buf.String()

	wantLines := []string{
		".class public Lcom/example/Config;",
		".super Ljava/lang/Object;",
		".implements Ljava/io/Serializable;",
		".annotation system Ldalvik/annotation/MemberClasses;",
		"        Lcom/example/Config$Inner;,",
		".end annotation",
		".field public static final DEBUG:Z = true",
		".method public size()I",
		"    .registers 2",
		".end method",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}

	// The skeleton must itself parse.
	if _, err := model.FromString(out); err != nil {
		t.Errorf("re-parse of encoded output failed: %v", err)
	}
}
