package analyzer

import (
	"reflect"
	"testing"
)

func analyzeExportsSrc(t *testing.T, env, src string) ExportsResult {
	t.Helper()
	ast := parseJS(t, src)
	return AnalyzeExports(ast, ExportsOptions{Environment: env})
}

func assertSet(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) == 0 {
		got = nil
	}
	if len(want) == 0 {
		want = nil
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}

func TestAnalyzeExports_DirectAssignments(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		exports.foo = 'bar';
		module.exports.bar = 123;
	`)
	assertSet(t, "exports", res.Exports, []string{"foo", "bar"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_DefineProperty(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		Object.defineProperty(exports, 'a', { value: 1 });
		Object.defineProperty(exports, 'b', { get: () => 1 });
		const k = 'c';
		Object.defineProperty(exports, k, { get() { return 1; } });
		Object.defineProperty(exports, 'd', {});
	`)
	assertSet(t, "exports", res.Exports, []string{"a", "b", "c"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_ObjectAssign(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		Object.assign(module.exports, { alas: 1, foo: 'bar' }, { ...require('a') }, require('b'));
	`)
	assertSet(t, "exports", res.Exports, []string{"alas", "foo"})
	assertSet(t, "reexports", res.Reexports, []string{"a", "b"})
}

func TestAnalyzeExports_ReexportWholesale(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		module.exports = require("lib");
	`)
	assertSet(t, "exports", res.Exports, nil)
	assertSet(t, "reexports", res.Reexports, []string{"lib"})
}

func TestAnalyzeExports_FunctionWithStatics(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		function M() {}
		M.foo = 'bar';
		module.exports = M;
	`)
	assertSet(t, "exports", res.Exports, []string{"foo"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_EnvironmentGuardedReturn(t *testing.T) {
	res := analyzeExportsSrc(t, "production", `
		function fn() {
			const m = { foo: 'bar' };
			if (process.env.NODE_ENV === 'production') {
				return m;
			}
			m.bar = 123;
			return m;
		}
		module.exports = fn;
	`)
	assertSet(t, "exports", res.Exports, []string{"foo"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_UMDFactory(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		(function (global, factory) {
			typeof exports === 'object' && typeof module !== 'undefined' ? factory(exports) :
			typeof define === 'function' && define.amd ? define(['exports'], factory) :
			(global = typeof globalThis !== 'undefined' ? globalThis : global || self, factory(global.lib = {}));
		})(this, function (exports) {
			exports.foo = 'bar';
			Object.defineProperty(exports, '__esModule', { value: true });
		});
	`)
	assertSet(t, "exports", res.Exports, []string{"foo", "__esModule"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_BundlerModuleTable(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		(function () {
			"use strict";
			var r = { r: function (t) { t.__esModule = true; }, d: function (t, e) {
				for (var n in e) r.o(e, n) && !r.o(t, n) && Object.defineProperty(t, n, { enumerable: true, get: e[n] });
			} };
			var t = {};
			r.r(t);
			r.d(t, { named: function () { return 1; } });
			t.default = "value";
		})();
	`)
	assertSet(t, "exports", res.Exports, []string{"__esModule", "named", "default"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_DeadBranchTelegraph(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		0 && (module.exports = { foo, bar });
	`)
	assertSet(t, "exports", res.Exports, []string{"foo", "bar"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_BareExportIdiom(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		var foo;
		foo = exports.foo || (exports.foo = {});
		exports.greet = 1;
	`)
	assertSet(t, "exports", res.Exports, []string{"foo", "greet"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_ResetClearsPriorExports(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		exports.stale = 1;
		module.exports = { fresh: 1 };
	`)
	assertSet(t, "exports", res.Exports, []string{"fresh"})
}

func TestAnalyzeExports_ComputedRequireSpecifierDropped(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		const name = 'lib';
		module.exports = require(name + '-suffix');
	`)
	assertSet(t, "exports", res.Exports, nil)
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_BundlerRDCallsOutsideWrapperIgnored(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		var logger = { r: function (t) { t.touched = true; }, d: function (t, e) { t.other = e; } };
		doSomethingElse();
		doAnotherThing();
		doYetAnotherThing();
		doOneMoreThing();
		doFifthThing();
		doSixthThing();
		doSeventhThing();
		doEighthThing();
		doNinthThing();
		logger.r(exports);
		logger.d(exports, { named: function () { return 1; } });
	`)
	assertSet(t, "exports", res.Exports, nil)
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_PositionalModuleFunction(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		(function (modules) {
			modules[0](null, {}, null);
		})([
			function (module, exports, require) {
				require.r(exports);
				require.d(exports, "named", function () { return 1; });
				exports.default = "value";
			}
		]);
	`)
	assertSet(t, "exports", res.Exports, []string{"__esModule", "named", "default"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_IIFEArgumentBareExportIdiom(t *testing.T) {
	res := analyzeExportsSrc(t, "development", `
		(function (e) {
			e.installed = true;
		})(exports.pkg || (exports.pkg = {}));
	`)
	assertSet(t, "exports", res.Exports, []string{"pkg"})
	assertSet(t, "reexports", res.Reexports, nil)
}

func TestAnalyzeExports_Determinism(t *testing.T) {
	src := `
		exports.a = 1;
		Object.assign(exports, require('x'));
	`
	first := analyzeExportsSrc(t, "development", src)
	second := analyzeExportsSrc(t, "development", src)
	assertSet(t, "exports", second.Exports, first.Exports)
	assertSet(t, "reexports", second.Reexports, first.Reexports)
}
