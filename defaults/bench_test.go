package defaults

import "testing"

func benchObject() object {
	o := object{ID: 100000, Name: "100000100000100000"}
	for j := 0; j < 10; j++ {
		o.Members = append(o.Members, member{ID: j, Active: true})
	}
	return o
}

func BenchmarkDefaults(b *testing.B) {
	o := benchObject()
	for _, d := range all {
		b.Run(d.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := d.def(o); err != nil {
					b.Fatalf("%s: %v", d.name, err)
				}
			}
		})
	}
}

func BenchmarkResolve(b *testing.B) {
	objs := make([]object, 100)
	for i := range objs {
		objs[i] = benchObject()
	}
	for _, d := range all {
		b.Run(d.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Resolve(objs, d.def); err != nil {
					b.Fatalf("%s: %v", d.name, err)
				}
			}
		})
	}
}
